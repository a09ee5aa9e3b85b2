package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/notifications"
)

func (c *cli) _notifications() (notifications.NotificationService, error) {
	if c.app.Notifications == nil {
		return nil, exceptions.Required("TOPIC_ARN")
	}
	return c.app.Notifications, nil
}

func newNotifyCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Manage change notification subscriptions",
	}

	subscribe := &cobra.Command{
		Use:   "subscribe <protocol> <endpoint>",
		Short: "Subscribe an endpoint to change notices",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := c._notifications()
			if err != nil {
				return err
			}
			input := data.SubscriptionInputDTO{Protocol: &args[0], Endpoint: &args[1]}
			if err := notifications.Validate(input); err != nil {
				return err
			}
			output, err := service.Subscribe(cmd.Context(), notifications.SubscribeInput{
				Protocol: input.Protocol,
				Endpoint: input.Endpoint,
			})
			if err != nil {
				return err
			}
			input.SubscriberArn = &output.SubscriberId
			created, err := c.app.Subscribers.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), created.SK)
			return err
		},
	}

	unsubscribe := &cobra.Command{
		Use:   "unsubscribe <subscriber-id>",
		Short: "Remove a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := c._notifications()
			if err != nil {
				return err
			}
			subscriber, err := c.app.Subscribers.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := service.Unsubscribe(cmd.Context(), subscriber.SubscriberArn); err != nil {
				return err
			}
			return c.app.Subscribers.Delete(cmd.Context(), subscriber.SK)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			subscribers, err := c.app.Subscribers.All(cmd.Context())
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(cmd.OutOrStdout(), subscribers)
			}
			for _, subscriber := range subscribers {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", subscriber.SK, subscriber.Protocol, subscriber.Endpoint)
			}
			return nil
		},
	}

	cmd.AddCommand(subscribe, unsubscribe, list)
	return cmd
}
