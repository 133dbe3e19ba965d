package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"okane/internal/cli"
	"okane/internal/log"
	"okane/internal/transfer"
)

func exportCmd() *cobra.Command {
	var (
		format string
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Back up expenses and categories",
		Long: `Export every expense and category. The file goes to the chosen export
directory, falling back to the downloads folder, the spreadsheet when one is
configured, and finally the share command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if stdout {
					payload, err := app.Engine.Export(f, app.Store.Now())
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(payload.Data)
					return err
				}

				receipt, err := app.Transfer.Export(ctx, f)
				if err != nil {
					return fmt.Errorf("export failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported via %s to %s\n", receipt.Strategy, receipt.Destination)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(transfer.FormatJSON), "json or csv")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "write the file to standard output instead of delivering it")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a JSON backup into the current data",
		Long: `Merge a JSON backup. Expenses and custom categories whose ids are already
present are skipped, so importing the same file twice changes nothing. Use "-"
to read from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}

			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				logger := log.FromContext(ctx)
				app.Engine.OnStateChange(func(s transfer.State) {
					logger.DebugContext(ctx, "Import state changed", "state", string(s))
				})
				res, err := app.Transfer.Import(ctx, data)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d expenses and %d categories\n",
					res.ExpensesImported, res.CategoriesImported)
				return nil
			})
		},
	}
}
