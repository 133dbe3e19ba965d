package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"okane/internal/core"
	"okane/internal/delivery"
	"okane/internal/log"
	"okane/internal/transfer"
)

// Exporter produces and delivers a backup.
type Exporter interface {
	Export(ctx context.Context, format transfer.Format) (delivery.Receipt, error)
}

// RunnerConfig holds configuration for the auto-export runner
type RunnerConfig struct {
	// PollInterval is how often the due check runs (default: 1m)
	PollInterval time.Duration

	// RetryBackoff delays the next attempt after a failed export (default: 15m)
	RetryBackoff time.Duration

	// Format of automatic backups (default: json)
	Format transfer.Format
}

// DefaultRunnerConfig returns sensible defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		PollInterval: time.Minute,
		RetryBackoff: 15 * time.Minute,
		Format:       transfer.FormatJSON,
	}
}

// Runner polls the export settings and exports when a backup is due.
type Runner struct {
	settings func() core.ExportSettings
	refresh  func(context.Context) error
	exporter Exporter
	config   RunnerConfig
	clock    func() time.Time
	logger   *log.Logger

	// Lifecycle management
	mu          sync.Mutex
	running     bool
	stopCh      chan struct{}
	doneCh      chan struct{}
	retryAfter  time.Time
	lastReceipt *delivery.Receipt
}

func NewRunner(settings func() core.ExportSettings, exporter Exporter, config RunnerConfig, logger *log.Logger) *Runner {
	def := DefaultRunnerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.RetryBackoff < 0 {
		config.RetryBackoff = 0
	}
	if config.Format == "" {
		config.Format = def.Format
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Runner{
		settings: settings,
		exporter: exporter,
		config:   config,
		clock:    time.Now,
		logger:   logger.WithComponent(log.ComponentSchedule),
	}
}

// WithClock overrides time.Now, for tests.
func (r *Runner) WithClock(clock func() time.Time) *Runner {
	r.clock = clock
	return r
}

// WithRefresh installs a hook run before every due check, typically a store
// reload so edits made by other processes are seen before deciding and
// exporting.
func (r *Runner) WithRefresh(refresh func(context.Context) error) *Runner {
	r.refresh = refresh
	return r
}

// Start begins the polling loop. Returns an error if already running.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return errors.New("auto-export runner is already running")
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.runLoop(ctx)

	r.logger.InfoContext(ctx, "Auto-export runner started",
		"poll_interval", r.config.PollInterval,
		log.FieldFormat, string(r.config.Format))
	return nil
}

// Stop signals the loop and waits for it to exit or for ctx to expire.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	stopCh, doneCh := r.stopCh, r.doneCh
	r.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		r.logger.InfoContext(ctx, "Auto-export runner stopped")
		return nil
	case <-ctx.Done():
		r.logger.WarnContext(ctx, "Auto-export runner stop timed out")
		return ctx.Err()
	}
}

func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// LastReceipt returns the receipt of the most recent automatic export.
func (r *Runner) LastReceipt() (delivery.Receipt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastReceipt == nil {
		return delivery.Receipt{}, false
	}
	return *r.lastReceipt, true
}

func (r *Runner) runLoop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	// Check immediately on startup
	r.check(ctx)

	for {
		select {
		case <-r.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.check(ctx)
		}
	}
}

func (r *Runner) check(ctx context.Context) {
	if _, err := r.CheckNow(ctx); err != nil {
		r.logger.WarnContext(ctx, "Automatic export failed",
			log.NewFields().WithOperation(log.OpExport).WithError(err).ToSlice()...)
	}
}

// CheckNow exports if a backup is due. exported reports whether an export
// was attempted and succeeded.
func (r *Runner) CheckNow(ctx context.Context) (exported bool, err error) {
	if r.refresh != nil {
		if err := r.refresh(ctx); err != nil {
			return false, fmt.Errorf("refresh before export: %w", err)
		}
	}
	now := r.clock()
	settings := r.settings()
	if !ShouldExport(settings, now) {
		return false, nil
	}

	r.mu.Lock()
	backingOff := now.Before(r.retryAfter)
	r.mu.Unlock()
	if backingOff {
		return false, nil
	}

	r.logger.InfoContext(ctx, "Automatic export due",
		log.FieldFrequency, string(settings.Frequency),
		"last_export", settings.LastExport.Time())

	receipt, err := r.exporter.Export(ctx, r.config.Format)
	if err != nil {
		r.mu.Lock()
		r.retryAfter = now.Add(r.config.RetryBackoff)
		r.mu.Unlock()
		return false, fmt.Errorf("auto export: %w", err)
	}

	r.mu.Lock()
	r.retryAfter = time.Time{}
	r.lastReceipt = &receipt
	r.mu.Unlock()
	return true, nil
}
