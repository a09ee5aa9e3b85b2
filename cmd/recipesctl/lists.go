package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"philcali.me/recipesync/internal/data"
	"philcali.me/recipesync/internal/shopping"
)

func newListsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list"},
		Short:   "Manage shopping lists",
	}

	var archived bool
	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List shopping lists, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := call(c, cmd.Context(), c.app.Lists.All)
			if err != nil {
				return err
			}
			if !all {
				active, archivedLists := shopping.Partition(lists)
				lists = active
				if archived {
					lists = archivedLists
				}
			}
			return c.printLists(cmd.OutOrStdout(), lists)
		},
	}
	list.Flags().BoolVar(&archived, "archived", false, "show archived lists instead of active ones")
	list.Flags().BoolVar(&all, "all", false, "show active and archived lists")

	get := &cobra.Command{
		Use:   "get <list-id>",
		Short: "Show one shopping list with its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			found, err := call(c, cmd.Context(), func(ctx context.Context) (data.ShoppingListDTO, error) {
				return c.app.Lists.Get(ctx, args[0])
			})
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), found)
		},
	}

	var items []string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed, err := parseIngredients(items)
			if err != nil {
				return err
			}
			listItems := make([]data.ShoppingListItemDTO, 0, len(parsed))
			for _, ingredient := range parsed {
				item, err := shopping.NewItem(shopping.ItemInput{
					Name:     ingredient.Name,
					Quantity: ingredient.Quantity,
				})
				if err != nil {
					return err
				}
				listItems = append(listItems, item)
			}
			created, err := c.app.Lists.Create(cmd.Context(), data.ShoppingListInputDTO{
				Name:  &args[0],
				Items: &listItems,
			})
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), created)
		},
	}
	create.Flags().StringArrayVar(&items, "item", nil, "item as name=quantity, repeatable")

	fromRecipe := &cobra.Command{
		Use:   "from-recipe <recipe-id>",
		Short: "Create a shopping list from the ingredients of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := c.app.Recipes.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			created, err := c.app.Lists.CreateFromRecipe(cmd.Context(), recipe)
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), created)
		},
	}

	var restore bool
	archive := &cobra.Command{
		Use:   "archive <list-id>",
		Short: "Archive a shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := c.app.Lists.Archive(cmd.Context(), args[0], !restore)
			if err != nil {
				return err
			}
			if c.jsonOutput {
				return c.printJSON(cmd.OutOrStdout(), updated)
			}
			state := "archived"
			if restore {
				state = "restored"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", updated.Name, state)
			return err
		},
	}
	archive.Flags().BoolVar(&restore, "restore", false, "move the list back to the active lists")

	remove := &cobra.Command{
		Use:     "delete <list-id>",
		Aliases: []string{"rm"},
		Short:   "Delete a shopping list",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Lists.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, get, create, fromRecipe, archive, remove)
	return cmd
}

func newItemsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "items",
		Aliases: []string{"item"},
		Short:   "Change the items of a shopping list",
	}

	var quantity string
	var category string
	add := &cobra.Command{
		Use:   "add <list-id> <name>",
		Short: "Append an item to a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := c.app.Items.AddItem(cmd.Context(), args[0], shopping.ItemInput{
				Name:     args[1],
				Quantity: quantity,
				Category: category,
			})
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), updated)
		},
	}
	add.Flags().StringVar(&quantity, "quantity", "", "free text quantity")
	add.Flags().StringVar(&category, "category", "", "item category (default \""+data.DEFAULT_CATEGORY+"\")")

	toggle := &cobra.Command{
		Use:   "toggle <list-id> <item-id>",
		Short: "Flip the checked state of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := c.app.Items.ToggleItem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), updated)
		},
	}

	remove := &cobra.Command{
		Use:     "remove <list-id> <item-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an item from a list",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := c.app.Items.RemoveItem(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), updated)
		},
	}

	uncheck := &cobra.Command{
		Use:   "uncheck <list-id>",
		Short: "Uncheck every item of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updated, err := c.app.Items.UncheckAll(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.printList(cmd.OutOrStdout(), updated)
		},
	}

	cmd.AddCommand(add, toggle, remove, uncheck)
	return cmd
}
