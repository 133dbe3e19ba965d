package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"okane/internal/aggregate"
	"okane/internal/cli"
)

func statsCmd() *cobra.Command {
	var (
		flags  periodFlags
		months int
		detail bool
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize spending by category and over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			period, err := flags.period()
			if err != nil {
				return err
			}
			return withApp(cmd, func(_ context.Context, app *cli.App) error {
				out := cmd.OutOrStdout()
				filtered := app.View.Filtered(period)

				fmt.Fprintf(out, "This month: %s\n", app.View.CurrentMonthTotal())
				fmt.Fprintf(out, "Selected period: %s across %d expenses\n\n", aggregate.Total(filtered), len(filtered))

				wedges := app.View.Breakdown(period)
				if len(wedges) > 0 {
					w := newTable(out)
					fmt.Fprintln(w, "CATEGORY\tAMOUNT\tSHARE\tCOLOR")
					for _, s := range wedges {
						fmt.Fprintf(w, "%s %s\t%s\t%.1f%%\t%s\n", s.Emoji, s.Name, s.Amount, s.Share*100, s.Color)
					}
					w.Flush()
					fmt.Fprintln(out)
				}

				if detail {
					for _, s := range wedges {
						fmt.Fprintf(out, "%s %s\n", s.Emoji, s.Name)
						for _, e := range aggregate.ExpensesFor(filtered, s) {
							fmt.Fprintf(out, "  %s  %s  %s\n", e.Date, e.Amount, e.Description)
						}
					}
					fmt.Fprintln(out)
				}

				if daily := app.View.DailyTrend(period); len(daily) > 0 {
					w := newTable(out)
					fmt.Fprintln(w, "DAY\tTOTAL")
					for _, d := range daily {
						fmt.Fprintf(w, "%s\t%s\n", d.Date, d.Total)
					}
					w.Flush()
					fmt.Fprintln(out)
				}

				w := newTable(out)
				defer w.Flush()
				fmt.Fprintln(w, "MONTH\tTOTAL")
				for _, m := range app.View.Trend(months) {
					fmt.Fprintf(w, "%s %d\t%s\n", time.Month(m.Month).String()[:3], m.Year, m.Total)
				}
				return nil
			})
		},
	}

	flags.bind(cmd, 30)
	cmd.Flags().BoolVar(&detail, "detail", false, "list the expenses behind each category")
	cmd.Flags().IntVar(&months, "months", aggregate.DefaultTrendMonths, "months in the trend table")
	return cmd
}
