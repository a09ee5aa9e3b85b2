package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/provider"
	"philcali.me/recipesync/internal/shopping"
)

func (c *cli) printJSON(out io.Writer, v interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func (c *cli) printRecipes(out io.Writer, recipes []data.RecipeDTO) error {
	if c.jsonOutput {
		return c.printJSON(out, recipes)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDURATION\tDIFFICULTY")
	for _, recipe := range recipes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", recipe.SK, recipe.Title, recipe.Duration, recipe.Difficulty)
	}
	return w.Flush()
}

func (c *cli) printRecipe(out io.Writer, recipe data.RecipeDTO) error {
	if c.jsonOutput {
		return c.printJSON(out, recipe)
	}
	fmt.Fprintf(out, "%s\n%s\n\n", recipe.Title, recipe.Description)
	fmt.Fprintf(out, "Id: %s\nDuration: %s\nDifficulty: %s\n", recipe.SK, recipe.Duration, recipe.Difficulty)
	if len(recipe.Ingredients) > 0 {
		fmt.Fprintln(out, "\nIngredients:")
		for _, ingredient := range recipe.Ingredients {
			fmt.Fprintf(out, "  - %s %s\n", ingredient.Quantity, ingredient.Name)
		}
	}
	if recipe.Steps != "" {
		fmt.Fprintf(out, "\n%s\n", recipe.Steps)
	}
	return nil
}

func (c *cli) printLists(out io.Writer, lists []data.ShoppingListDTO) error {
	if c.jsonOutput {
		return c.printJSON(out, lists)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPROGRESS\tARCHIVED")
	for _, list := range lists {
		progress := shopping.GetProgress(list.Items)
		fmt.Fprintf(w, "%s\t%s\t%d/%d (%d%%)\t%t\n", list.SK, list.Name, progress.Checked, progress.Total, progress.Percentage, list.Archived)
	}
	return w.Flush()
}

func (c *cli) printList(out io.Writer, list data.ShoppingListDTO) error {
	if c.jsonOutput {
		return c.printJSON(out, list)
	}
	progress := shopping.GetProgress(list.Items)
	fmt.Fprintf(out, "%s (%s)\n", list.Name, list.SK)
	fmt.Fprintf(out, "%d/%d checked (%d%%)\n", progress.Checked, progress.Total, progress.Percentage)
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, item := range list.Items {
		mark := " "
		if item.Checked {
			mark = "x"
		}
		fmt.Fprintf(w, "[%s]\t%s\t%s\t%s\t%s\n", mark, item.Id, item.Name, item.Quantity, item.Category)
	}
	return w.Flush()
}

func (c *cli) printProviderRecipes(out io.Writer, recipes []provider.Recipe) error {
	if c.jsonOutput {
		return c.printJSON(out, recipes)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tAREA")
	for _, recipe := range recipes {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", recipe.Id, recipe.Title, recipe.Category, recipe.Area)
	}
	return w.Flush()
}
