package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/subscriptions"
)

// watchStream prints every snapshot until the context ends, the stream
// fails or count snapshots were printed.
func watchStream[T interface{}](ctx context.Context, c *cli, stream *subscriptions.Stream[T], count int, print func(io.Writer, []T) error, out io.Writer) error {
	defer stream.Cancel()
	for seen := 0; count <= 0 || seen < count; seen++ {
		snapshot, ok := stream.Next(ctx)
		if !ok {
			return nil
		}
		if snapshot.Err != nil {
			c.app.Logger.Warn("live query failed",
				zap.String("kind", exceptions.Classify(snapshot.Err).String()),
				zap.Error(snapshot.Err))
			return snapshot.Err
		}
		if !c.jsonOutput {
			fmt.Fprintf(out, "-- %s, %d documents\n", time.Now().Format(time.TimeOnly), len(snapshot.Items))
		}
		if err := print(out, snapshot.Items); err != nil {
			return err
		}
	}
	return nil
}

func newWatchCmd(c *cli) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a collection every time it changes",
	}
	cmd.PersistentFlags().IntVar(&count, "count", 0, "stop after this many snapshots; zero runs until interrupted")

	recipes := &cobra.Command{
		Use:   "recipes",
		Short: "Watch the recipes collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stream := c.app.RecipeFeed().Stream(cmd.Context())
			return watchStream(cmd.Context(), c, stream, count, c.printRecipes, cmd.OutOrStdout())
		},
	}

	lists := &cobra.Command{
		Use:   "lists",
		Short: "Watch the shopping lists collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stream := c.app.ListFeed().Stream(cmd.Context())
			return watchStream(cmd.Context(), c, stream, count, c.printLists, cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(recipes, lists)
	return cmd
}
