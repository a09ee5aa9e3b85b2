package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/exceptions"
	"philcali.me/recipesync/internal/mealdb"
	"philcali.me/recipesync/internal/provider"
)

type recipeFlags struct {
	title       string
	description string
	steps       string
	duration    string
	difficulty  string
	ingredients []string
}

func (rf *recipeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&rf.title, "title", "", "recipe title")
	cmd.Flags().StringVar(&rf.description, "description", "", "short description")
	cmd.Flags().StringVar(&rf.steps, "steps", "", "preparation steps")
	cmd.Flags().StringVar(&rf.duration, "duration", "", "preparation duration, e.g. \"45 min\"")
	cmd.Flags().StringVar(&rf.difficulty, "difficulty", "", "difficulty label")
	cmd.Flags().StringArrayVar(&rf.ingredients, "ingredient", nil, "ingredient as name=quantity, repeatable")
}

// parseIngredients accepts "name=quantity" or a bare name.
func parseIngredients(values []string) ([]data.IngredientDTO, error) {
	ingredients := make([]data.IngredientDTO, 0, len(values))
	for _, value := range values {
		name, quantity, _ := strings.Cut(value, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, exceptions.InvalidInput(fmt.Sprintf("invalid ingredient %q", value))
		}
		ingredients = append(ingredients, data.IngredientDTO{
			Name:     name,
			Quantity: strings.TrimSpace(quantity),
		})
	}
	return ingredients, nil
}

// input only carries the flags set on the command line so updates stay
// partial.
func (rf *recipeFlags) input(cmd *cobra.Command) (data.RecipeInputDTO, error) {
	input := data.RecipeInputDTO{}
	flags := cmd.Flags()
	if flags.Changed("title") {
		input.Title = &rf.title
	}
	if flags.Changed("description") {
		input.Description = &rf.description
	}
	if flags.Changed("steps") {
		input.Steps = &rf.steps
	}
	if flags.Changed("duration") {
		input.Duration = &rf.duration
	}
	if flags.Changed("difficulty") {
		input.Difficulty = &rf.difficulty
	}
	if flags.Changed("ingredient") {
		ingredients, err := parseIngredients(rf.ingredients)
		if err != nil {
			return input, err
		}
		input.Ingredients = &ingredients
	}
	return input, nil
}

func newRecipesCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipes",
		Aliases: []string{"recipe"},
		Short:   "Manage recipes",
	}

	var limit int
	var nextToken string
	list := &cobra.Command{
		Use:   "list",
		Short: "List recipes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				recipes, err := call(c, cmd.Context(), c.app.Recipes.All)
				if err != nil {
					return err
				}
				return c.printRecipes(cmd.OutOrStdout(), recipes)
			}
			page, err := call(c, cmd.Context(), func(ctx context.Context) (data.QueryResults[data.RecipeDTO], error) {
				return c.app.Recipes.List(ctx, data.QueryParams{Limit: limit, NextToken: []byte(nextToken)})
			})
			if err != nil {
				return err
			}
			if err := c.printRecipes(cmd.OutOrStdout(), page.Items); err != nil {
				return err
			}
			if len(page.NextToken) > 0 && !c.jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "\nNext page: --next-token %s\n", page.NextToken)
			}
			return nil
		},
	}
	list.Flags().IntVar(&limit, "limit", 0, "page size; zero lists everything")
	list.Flags().StringVar(&nextToken, "next-token", "", "token printed by the previous page")

	get := &cobra.Command{
		Use:   "get <recipe-id>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := call(c, cmd.Context(), func(ctx context.Context) (data.RecipeDTO, error) {
				return c.app.Recipes.Get(ctx, args[0])
			})
			if err != nil {
				return err
			}
			return c.printRecipe(cmd.OutOrStdout(), recipe)
		},
	}

	createFlags := &recipeFlags{}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := createFlags.input(cmd)
			if err != nil {
				return err
			}
			recipe, err := c.app.Recipes.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return c.printRecipe(cmd.OutOrStdout(), recipe)
		},
	}
	createFlags.bind(create)

	updateFlags := &recipeFlags{}
	update := &cobra.Command{
		Use:   "update <recipe-id>",
		Short: "Update the given fields of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := updateFlags.input(cmd)
			if err != nil {
				return err
			}
			recipe, err := c.app.Recipes.Update(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return c.printRecipe(cmd.OutOrStdout(), recipe)
		},
	}
	updateFlags.bind(update)

	remove := &cobra.Command{
		Use:     "delete <recipe-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a recipe",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Recipes.Delete(cmd.Context(), args[0])
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <meal-id>",
		Short: "Copy a recipe from the external provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := call(c, cmd.Context(), func(ctx context.Context) (provider.Recipe, error) {
				return c.app.Provider.Lookup(ctx, args[0])
			})
			if err != nil {
				return err
			}
			recipe, err := c.app.Recipes.Create(cmd.Context(), mealdb.ToRecipeInput(found))
			if err != nil {
				return err
			}
			return c.printRecipe(cmd.OutOrStdout(), recipe)
		},
	}

	cmd.AddCommand(list, get, create, update, remove, importCmd)
	return cmd
}
