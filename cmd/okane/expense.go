package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"okane/internal/aggregate"
	"okane/internal/cli"
	"okane/internal/core"
	"okane/internal/store"
)

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expense",
		Aliases: []string{"expenses", "e"},
		Short:   "Record and browse expenses",
	}

	cmd.AddCommand(addExpenseCmd())
	cmd.AddCommand(listExpensesCmd())
	cmd.AddCommand(updateExpenseCmd())
	cmd.AddCommand(deleteExpenseCmd())

	return cmd
}

func addExpenseCmd() *cobra.Command {
	var (
		amount      string
		categoryID  string
		description string
		date        string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				money, err := core.ParseMoney(amount)
				if err != nil {
					return err
				}
				day := today(app)
				if date != "" {
					if day, err = core.ParseDate(date); err != nil {
						return err
					}
				}
				if err := core.ValidateNewExpense(money, categoryID, day); err != nil {
					return err
				}
				if _, ok := app.Store.Categories.Get(categoryID); !ok {
					return fmt.Errorf("%w: %s", store.ErrCategoryNotFound, categoryID)
				}

				exp, err := app.Store.Expenses.Add(ctx, store.NewExpense{
					Amount:      money,
					CategoryID:  categoryID,
					Description: description,
					Date:        day,
				})
				if err != nil {
					return fmt.Errorf("failed to add expense: %w", err)
				}
				cat := app.Store.Categories.Resolve(exp.CategoryID)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s on %s (%s)\n", exp.Amount, categoryLabel(cat), exp.Date, exp.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount, e.g. 12.50")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "category id")
	cmd.Flags().StringVarP(&description, "description", "d", "", "optional note")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD), defaults to today")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func listExpensesCmd() *cobra.Command {
	var flags periodFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses grouped by day",
		Long: `List expenses grouped by day, newest first. Without period flags the
last three months are shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, app *cli.App) error {
				var groups []aggregate.DayGroup
				if cmd.Flags().Changed("days") || flags.month || flags.from != "" || flags.to != "" {
					period, err := flags.period()
					if err != nil {
						return err
					}
					groups = aggregate.GroupByDay(app.View.Filtered(period))
				} else {
					groups = app.View.RecentByDay()
				}

				out := cmd.OutOrStdout()
				if len(groups) == 0 {
					fmt.Fprintln(out, "No expenses yet. Use 'okane expense add' to record one.")
					return nil
				}

				w := newTable(out)
				defer w.Flush()
				for _, g := range groups {
					fmt.Fprintf(w, "%s\t\t%s\n", g.Label, g.Total)
					for _, e := range g.Items {
						cat := app.Store.Categories.Resolve(e.CategoryID)
						fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", categoryLabel(cat), e.Amount, e.Description, e.ID)
					}
				}
				return nil
			})
		},
	}

	flags.bind(cmd, 7)
	return cmd
}

func updateExpenseCmd() *cobra.Command {
	var (
		amount      string
		categoryID  string
		description string
		date        string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				var patch store.ExpensePatch
				if cmd.Flags().Changed("amount") {
					money, err := core.ParseMoney(amount)
					if err != nil {
						return err
					}
					if err := money.Validate(); err != nil {
						return err
					}
					patch.Amount = &money
				}
				if cmd.Flags().Changed("category") {
					patch.CategoryID = &categoryID
				}
				if cmd.Flags().Changed("description") {
					patch.Description = &description
				}
				if cmd.Flags().Changed("date") {
					day, err := core.ParseDate(date)
					if err != nil {
						return err
					}
					patch.Date = &day
				}

				exp, err := app.Store.Expenses.Update(ctx, args[0], patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s on %s\n", exp.ID, exp.Amount, exp.Date)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount")
	cmd.Flags().StringVarP(&categoryID, "category", "c", "", "new category id")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new note")
	cmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")

	return cmd
}

func deleteExpenseCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if err := app.Store.Expenses.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
