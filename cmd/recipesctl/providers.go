package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/provider"
)

func newProvidersCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "providers",
		Aliases: []string{"provider"},
		Short:   "Browse the external recipe provider",
	}

	var category, area, ingredient string
	search := &cobra.Command{
		Use:   "search [text]",
		Short: "Search provider recipes by text, category, area or main ingredient",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := provider.FilterInput{}
			if category != "" {
				filter.Category = &category
			}
			if area != "" {
				filter.Area = &area
			}
			if ingredient != "" {
				filter.MainIngredient = &ingredient
			}
			results, err := call(c, cmd.Context(), func(ctx context.Context) (data.QueryResults[provider.Recipe], error) {
				if len(args) == 1 {
					return c.app.Provider.Search(ctx, args[0])
				}
				return c.app.Provider.Filter(ctx, filter)
			})
			if err != nil {
				return err
			}
			return c.printProviderRecipes(cmd.OutOrStdout(), results.Items)
		},
	}
	search.Flags().StringVar(&category, "category", "", "provider category")
	search.Flags().StringVar(&area, "area", "", "cuisine area")
	search.Flags().StringVar(&ingredient, "ingredient", "", "main ingredient")

	random := &cobra.Command{
		Use:   "random",
		Short: "Show a random provider recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := call(c, cmd.Context(), c.app.Provider.Random)
			if err != nil {
				return err
			}
			return c.printProviderRecipes(cmd.OutOrStdout(), results.Items)
		},
	}

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List provider categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := call(c, cmd.Context(), c.app.Provider.Categories)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(cmd.OutOrStdout(), found)
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, category := range found {
				fmt.Fprintf(w, "%s\t%s\n", category.Id, category.Name)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(search, random, categories)
	return cmd
}
