package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"okane/internal/cli"
)

var version = "dev"

// openApp builds the application for a command. Tests replace it to point at
// a temporary data directory.
var openApp = cli.Bootstrap

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "okane",
		Short: "💰 Personal expense tracking",
		Long: `okane records daily expenses by category, summarizes them over time and
keeps them safe with JSON and CSV backups.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(expenseCmd())
	cmd.AddCommand(categoryCmd())
	cmd.AddCommand(statsCmd())
	cmd.AddCommand(exportCmd())
	cmd.AddCommand(importCmd())
	cmd.AddCommand(settingsCmd())
	cmd.AddCommand(watchCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "okane", version)
		},
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	err := rootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
