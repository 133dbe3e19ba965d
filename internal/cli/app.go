package cli

import (
	"context"
	"errors"
	"fmt"

	"okane/internal/aggregate"
	"okane/internal/backend"
	"okane/internal/config"
	"okane/internal/delivery"
	"okane/internal/delivery/sheets"
	"okane/internal/log"
	"okane/internal/store"
	"okane/internal/transfer"
)

// App is the wired application: one store, the views over it and the
// import/export service. Commands build it once and Close it on exit.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Store    *store.Store
	View     *aggregate.View
	Engine   *transfer.Engine
	Transfer *transfer.Service
	Chain    *delivery.Chain

	closers []func() error
}

// Bootstrap runs the whole startup sequence used by the okane binary.
func Bootstrap(ctx context.Context) (*App, error) {
	LoadEnvFile()
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	return NewApp(ctx, cfg, SetupLogger(cfg))
}

// NewApp opens the configured persistence backend, loads the store and wires
// the services around it.
func NewApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", backendCfg.Type, err)
	}

	app := &App{Config: cfg, Logger: logger}
	app.closers = append(app.closers, res.Close)

	app.Store = store.New(res.Adapter)
	if err := app.Store.Load(ctx); err != nil {
		app.Close()
		return nil, fmt.Errorf("load store: %w", err)
	}

	app.View = aggregate.NewView(app.Store, aggregate.Today(cfg.Location(), app.Store.Now), cfg.CacheSize)
	app.Chain = buildChain(ctx, cfg, app.Store, logger)
	app.Engine = transfer.NewEngine(app.Store, logger)
	app.Transfer = transfer.NewService(app.Engine, app.Store, app.Chain, logger)
	return app, nil
}

// OnClose registers fn to run when the app is closed, in reverse order.
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// buildChain assembles the delivery fallback order: the picked directory,
// the downloads folder, the spreadsheet when configured, and finally the
// share command.
func buildChain(ctx context.Context, cfg *config.Config, s *store.Store, logger *log.Logger) *delivery.Chain {
	strategies := []delivery.Strategy{
		delivery.NewDirectory(func() (string, string) {
			settings := s.Settings.Get()
			return settings.ExportPath, settings.ExportPathLabel
		}),
	}

	downloads := cfg.ExportDir
	if downloads == "" {
		if dir, err := delivery.DefaultDownloadsDir(); err == nil {
			downloads = dir
		}
	}
	strategies = append(strategies, &delivery.Downloads{Dir: downloads})

	if cfg.SheetsEnabled() {
		book, err := sheets.NewGoogleWorkbook(ctx, cfg.GoogleSpreadsheetID, sheets.Credentials{
			JSON: cfg.GoogleServiceAccountJSON,
			File: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			logger.WarnContext(ctx, "Google Sheets delivery disabled", log.FieldError, err)
		} else {
			strategies = append(strategies, sheets.New(book))
		}
	}

	var sharer delivery.Sharer
	if cfg.ShareCommand != "" {
		sharer = delivery.CommandSharer{Command: cfg.ShareCommand}
	}
	strategies = append(strategies, &delivery.Share{CacheDir: cfg.CacheDir, Sharer: sharer})

	return delivery.NewChain(logger, strategies...)
}
