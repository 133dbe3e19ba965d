package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"okane/internal/aggregate"
	"okane/internal/cli"
	"okane/internal/core"
	"okane/internal/log"
)

// withApp opens the application, runs fn and closes it again.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(log.WithContext(ctx, app.Logger), app)
}

func today(app *cli.App) core.Date {
	return aggregate.Today(app.Config.Location(), app.Store.Now)()
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// periodFlags binds the flags shared by list and stats.
type periodFlags struct {
	days  int
	month bool
	from  string
	to    string
}

func (p *periodFlags) bind(cmd *cobra.Command, defaultDays int) {
	cmd.Flags().IntVar(&p.days, "days", defaultDays, "last N days, today included")
	cmd.Flags().BoolVar(&p.month, "month", false, "current calendar month")
	cmd.Flags().StringVar(&p.from, "from", "", "custom range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.to, "to", "", "custom range end (YYYY-MM-DD)")
}

func (p *periodFlags) period() (aggregate.Period, error) {
	switch {
	case p.from != "" || p.to != "":
		start, err := core.ParseDate(p.from)
		if err != nil {
			return aggregate.Period{}, fmt.Errorf("--from: %w", err)
		}
		end, err := core.ParseDate(p.to)
		if err != nil {
			return aggregate.Period{}, fmt.Errorf("--to: %w", err)
		}
		period := aggregate.CustomRange(start, end)
		return period, period.Validate()
	case p.month:
		return aggregate.CurrentMonth(), nil
	default:
		period := aggregate.LastNDays(p.days)
		return period, period.Validate()
	}
}

func categoryLabel(cat core.Category) string {
	return strings.TrimSpace(cat.Emoji + " " + cat.Name)
}
