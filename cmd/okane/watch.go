package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"okane/internal/amqp"
	"okane/internal/cache"
	"okane/internal/cli"
	"okane/internal/log"
	"okane/internal/schedule"
	"okane/internal/store"
	"okane/internal/transfer"
)

const shutdownTimeout = 30 * time.Second

func watchCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run automatic backups until interrupted",
		Long: `Run in the foreground, exporting a backup whenever the configured frequency
says one is due. The data is re-read from storage before every check, so
entries added by other okane commands are part of the next backup.

When AMQP_URL is set, changes are announced on the configured exchange. Edits
made by other okane commands are announced as "reloaded" once watch picks them
up on its next poll.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := transfer.ParseFormat(format)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				ctx, cancel := cli.SignalContext(ctx, app.Logger)
				defer cancel()
				return watch(ctx, app, f)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(transfer.FormatJSON), "backup format, json or csv")
	return cmd
}

func watch(ctx context.Context, app *cli.App, format transfer.Format) error {
	logger := app.Logger.WithComponent(log.ComponentSchedule)
	g, ctx := errgroup.WithContext(ctx)

	runnerCfg := schedule.DefaultRunnerConfig()
	runnerCfg.PollInterval = app.Config.AutoExportInterval
	runnerCfg.Format = format
	runner := schedule.NewRunner(app.Store.Settings.Get, app.Transfer, runnerCfg, app.Logger).
		WithRefresh(app.Store.Reload)

	caches := cache.NewManager()
	caches.Register(app.View.Cache())

	if app.Config.AMQPURL != "" {
		publisher := amqp.NewClient(app.Config.AMQPURL, app.Config.AMQPExchange, app.Config.AMQPRoutingKey, app.Logger)
		unsubscribe := app.Store.Subscribe(publisher.Observe)
		g.Go(func() error {
			defer unsubscribe()
			defer publisher.Close()
			err := publisher.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	unsubscribe := app.Store.Subscribe(func(c store.Change) {
		logger.Debug("Store changed",
			"kind", c.Kind,
			"collection", c.Collection,
			log.FieldRevision, c.Revision)
		if c.Kind == store.ChangeReloaded && c.Collection == store.CollectionExpenses {
			logger.Info("Picked up new expenses",
				"month_total", app.View.CurrentMonthTotal().String(),
				log.FieldRevision, c.Revision)
		}
	})
	defer unsubscribe()

	g.Go(func() error {
		if err := runner.Start(ctx); err != nil {
			return err
		}
		caches.StartCleanup(time.Minute)
		logger.InfoContext(ctx, "Watching for due backups",
			log.FieldFrequency, string(app.Store.Settings.Get().Frequency),
			"month_total", app.View.CurrentMonthTotal().String())

		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		caches.Stop()
		return runner.Stop(shutdownCtx)
	})

	err := g.Wait()
	stats := app.View.Cache().Stats()
	logger.Info("Watch stopped",
		log.FieldOperation, log.OpShutdown,
		"cache_hits", stats.Hits,
		"cache_misses", stats.Misses)
	return err
}
