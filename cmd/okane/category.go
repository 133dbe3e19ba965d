package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"okane/internal/cli"
	"okane/internal/store"
)

func categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "c"},
		Short:   "Manage expense categories",
		Long: `List, add, update, hide and restore expense categories. Deleting a category
only hides it so that past expenses keep their name and emoji.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())
	cmd.AddCommand(restoreCategoryCmd())
	cmd.AddCommand(purgeCategoryCmd())
	cmd.AddCommand(reorderCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, app *cli.App) error {
				cats := app.Store.Categories.List()
				if all {
					cats = app.Store.Categories.ListAll()
				}

				w := newTable(cmd.OutOrStdout())
				defer w.Flush()
				fmt.Fprintln(w, "ID\tCATEGORY\tTYPE\tSTATUS")
				for _, cat := range cats {
					kind := "built-in"
					if cat.IsCustom {
						kind = "custom"
					}
					status := ""
					if app.Store.Categories.IsHidden(cat.ID) {
						status = "hidden"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cat.ID, categoryLabel(cat), kind, status)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include hidden categories")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <emoji>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				cat, err := app.Store.Categories.Add(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added category %s (%s)\n", categoryLabel(cat), cat.ID)
				return nil
			})
		},
	}
}

func updateCategoryCmd() *cobra.Command {
	var name, emoji string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a category or change its emoji",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch store.CategoryPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("emoji") {
				patch.Emoji = &emoji
			}
			if patch.Name == nil && patch.Emoji == nil {
				return fmt.Errorf("nothing to update: pass --name or --emoji")
			}
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if err := app.Store.Categories.Update(ctx, args[0], patch); err != nil {
					return err
				}
				cat, _ := app.Store.Categories.Get(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Updated category %s\n", categoryLabel(cat))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&emoji, "emoji", "", "new emoji")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"hide"},
		Short:   "Hide a category from pickers",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if err := app.Store.Categories.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Hid category %s\n", args[0])
				return nil
			})
		},
	}
}

func restoreCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "restore <id>",
		Aliases: []string{"unhide"},
		Short:   "Make a hidden category selectable again",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if err := app.Store.Categories.Restore(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Restored category %s\n", args[0])
				return nil
			})
		},
	}
}

func purgeCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <id>",
		Short: "Permanently remove an unused custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if err := app.Store.PurgeCategory(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Purged category %s\n", args[0])
				return nil
			})
		},
	}
}

func reorderCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Set the display order of categories",
		Long: `Set the display order of categories. Categories not listed keep their
natural order after the listed ones.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				return app.Store.Categories.Reorder(ctx, args)
			})
		},
	}
}
