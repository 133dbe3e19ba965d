package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"okane/internal/cli"
	"okane/internal/core"
	"okane/internal/delivery"
	"okane/internal/schedule"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change auto-export settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(_ context.Context, app *cli.App) error {
				s := app.Store.Settings.Get()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Frequency:   %s\n", s.Frequency)
				if s.LastExport == 0 {
					fmt.Fprintln(out, "Last export: never")
				} else {
					fmt.Fprintf(out, "Last export: %s\n", s.LastExport.Time().Local().Format(time.DateTime))
				}
				if due, ok := schedule.NextDue(s); ok {
					fmt.Fprintf(out, "Next due:    %s\n", due.Local().Format(time.DateTime))
				}
				path := "(downloads folder)"
				if s.ExportPath != "" {
					path = fmt.Sprintf("%s [%s]", s.ExportPath, s.ExportPathLabel)
				}
				fmt.Fprintf(out, "Export path: %s\n", path)
				fmt.Fprintf(out, "Delivery:    %v\n", app.Chain.Strategies())
				return nil
			})
		},
	}

	cmd.AddCommand(frequencyCmd())
	cmd.AddCommand(exportPathCmd())

	return cmd
}

func frequencyCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "frequency <off|daily|weekly|monthly>",
		Short:     "Set how often automatic backups run",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"off", "daily", "weekly", "monthly"},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := core.ParseFrequency(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if err := app.Store.Settings.SetFrequency(ctx, f); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Auto-export set to %s\n", f)
				return nil
			})
		},
	}
}

func exportPathCmd() *cobra.Command {
	var (
		label string
		unset bool
	)

	cmd := &cobra.Command{
		Use:   "export-path [dir]",
		Short: "Choose the directory exports are written to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !unset && len(args) == 0 {
				return fmt.Errorf("pass a directory or --clear")
			}
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if unset {
					if err := app.Store.Settings.SetExportPath(ctx, "", ""); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Export path cleared")
					return nil
				}
				path, shown, err := delivery.ChooseExportPath(ctx, delivery.StaticPicker{Path: args[0], Label: label}, app.Store.Settings)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exports will be written to %s (%s)\n", path, shown)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "display name for the directory")
	cmd.Flags().BoolVar(&unset, "clear", false, "forget the chosen directory")
	return cmd
}
