package transfer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"okane/internal/delivery"
	"okane/internal/log"
	"okane/internal/store"
)

// State is the phase of the import flow.
type State string

const (
	StateIdle    State = "idle"
	StateParsing State = "parsing"
	StateMerging State = "merging"
	StateFailed  State = "failed"
)

// Engine runs imports and exports against a store.
type Engine struct {
	store  *store.Store
	logger *log.Logger

	mu      sync.Mutex
	state   State
	lastErr error
	onState func(State)
}

func NewEngine(s *store.Store, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Engine{
		store:  s,
		logger: logger.WithComponent(log.ComponentTransfer),
		state:  StateIdle,
	}
}

// OnStateChange registers fn to observe import state transitions.
func (e *Engine) OnStateChange(fn func(State)) {
	e.mu.Lock()
	e.onState = fn
	e.mu.Unlock()
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// LastError returns the error of the most recent failed import, if any.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Export serializes the current store contents.
func (e *Engine) Export(format Format, now time.Time) (delivery.Payload, error) {
	snap := e.store.Snapshot()
	return Export(snap.Expenses, snap.Categories, format, now)
}

// Import merges a backup file into the store. A parse failure or a failed
// save leaves every collection unchanged.
func (e *Engine) Import(ctx context.Context, data []byte) (Result, error) {
	e.mu.Lock()
	if e.state != StateIdle {
		e.mu.Unlock()
		return Result{}, fmt.Errorf("import already in progress (%s)", e.state)
	}
	e.state = StateParsing
	fn := e.onState
	e.mu.Unlock()
	if fn != nil {
		fn(StateParsing)
	}

	backup, err := Decode(data)
	if err != nil {
		return Result{}, e.fail(ctx, err)
	}

	e.transition(StateMerging)
	merged, err := e.store.Merge(ctx, backup.Expenses, customCategories(backup.Categories))
	if err != nil {
		return Result{}, e.fail(ctx, fmt.Errorf("merge backup: %w", err))
	}

	res := Result{ExpensesImported: merged.Expenses, CategoriesImported: merged.Categories}
	e.logger.InfoContext(ctx, "Backup imported",
		log.FieldOperation, log.OpImport,
		"expenses_imported", res.ExpensesImported,
		"categories_imported", res.CategoriesImported)

	e.mu.Lock()
	e.lastErr = nil
	e.mu.Unlock()
	e.transition(StateIdle)
	return res, nil
}

func (e *Engine) fail(ctx context.Context, err error) error {
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()
	e.transition(StateFailed)
	e.logger.WarnContext(ctx, "Import failed", log.NewFields().WithOperation(log.OpImport).WithError(err).ToSlice()...)
	e.transition(StateIdle)
	return err
}

func (e *Engine) transition(s State) {
	e.mu.Lock()
	e.state = s
	fn := e.onState
	e.mu.Unlock()
	if fn != nil {
		fn(s)
	}
}
