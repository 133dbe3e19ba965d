// Package store owns the expense and category collections. Every mutation is
// a single read-modify-write against the persistence adapter: the new state
// is saved first and only then becomes visible in memory, so a failed save
// leaves the store exactly as it was.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"okane/internal/core"
	"okane/internal/storage"
)

var (
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrEmptyName          = errors.New("category name cannot be empty")
	ErrEmptyEmoji         = errors.New("category emoji cannot be empty")
	ErrBuiltinCategory    = errors.New("built-in categories cannot be removed")
	ErrCategoryReferenced = errors.New("category is still referenced by expenses")
)

type (
	ChangeKind string
	Collection string

	// Change describes one committed mutation.
	Change struct {
		Kind       ChangeKind
		Collection Collection
		ID         string
		Revision   uint64
	}

	// Snapshot is a consistent copy of the store contents.
	Snapshot struct {
		Revision   uint64
		Expenses   []core.Expense
		Categories []core.Category // all categories, hidden included
		Visible    []core.Category
		Settings   core.ExportSettings
	}

	// MergeResult counts the records an import actually added.
	MergeResult struct {
		Expenses   int
		Categories int
	}

	Option func(*Store)
)

const (
	ChangeAdded     ChangeKind = "added"
	ChangeUpdated   ChangeKind = "updated"
	ChangeDeleted   ChangeKind = "deleted"
	ChangeHidden    ChangeKind = "hidden"
	ChangeRestored  ChangeKind = "restored"
	ChangeReordered ChangeKind = "reordered"
	ChangeImported  ChangeKind = "imported"
	// ChangeReloaded marks a collection that another process rewrote on
	// disk and Reload picked up.
	ChangeReloaded ChangeKind = "reloaded"

	CollectionExpenses   Collection = "expenses"
	CollectionCategories Collection = "categories"
	CollectionSettings   Collection = "settings"
)

// Store is the process-wide state object. Build it once with New, call Load,
// and pass it to consumers explicitly.
type Store struct {
	Categories *Categories
	Expenses   *Expenses
	Settings   *Settings

	adapter storage.Adapter
	clock   func() time.Time
	newID   func() string

	mu        sync.Mutex
	revision  uint64
	observers map[int]func(Change)
	nextObs   int
}

// WithClock overrides time.Now for timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithIDGenerator overrides the uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

func New(adapter storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter:   adapter,
		clock:     time.Now,
		newID:     uuid.NewString,
		observers: map[int]func(Change){},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Categories = &Categories{adapter: adapter, newID: s.newID, commit: s.commit, all: core.BuiltinCategories()}
	s.Expenses = &Expenses{adapter: adapter, newID: s.newID, clock: s.clock, commit: s.commit}
	s.Settings = &Settings{adapter: adapter, commit: s.commit, current: core.DefaultExportSettings()}
	return s
}

// Load reads every collection from the adapter. Malformed records fall back
// to defaults and are never reported as errors.
func (s *Store) Load(ctx context.Context) error {
	if s.adapter == nil {
		return errors.New("store has no persistence adapter")
	}
	s.Categories.load(ctx)
	s.Expenses.load(ctx)
	s.Settings.load(ctx)

	slog.InfoContext(ctx, "Store loaded",
		"expenses", len(s.Expenses.List()),
		"categories", len(s.Categories.ListAll()),
		"hidden", len(s.Categories.Hidden()))
	return nil
}

// Reload re-reads every collection from the adapter so writes made by other
// processes sharing the same data become visible. One ChangeReloaded is
// committed per collection whose contents actually changed.
func (s *Store) Reload(ctx context.Context) error {
	if s.adapter == nil {
		return errors.New("store has no persistence adapter")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	before := s.Snapshot()
	s.Categories.load(ctx)
	s.Expenses.load(ctx)
	s.Settings.load(ctx)
	after := s.Snapshot()

	var changed []Collection
	if !sameRecords(before.Expenses, after.Expenses) {
		changed = append(changed, CollectionExpenses)
	}
	if !sameRecords(before.Categories, after.Categories) || !sameRecords(before.Visible, after.Visible) {
		changed = append(changed, CollectionCategories)
	}
	if before.Settings != after.Settings {
		changed = append(changed, CollectionSettings)
	}
	for _, c := range changed {
		s.commit(Change{Kind: ChangeReloaded, Collection: c})
	}
	if len(changed) > 0 {
		slog.DebugContext(ctx, "Store reloaded", "changed", changed)
	}
	return nil
}

// sameRecords compares two collections by their persisted form.
func sameRecords[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	x, errA := json.Marshal(a)
	y, errB := json.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(x, y)
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.clock()
}

func (s *Store) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Subscribe registers fn to be called after every committed mutation.
// Observers run synchronously on the mutating goroutine; the returned
// function removes the registration.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) commit(c Change) {
	s.mu.Lock()
	s.revision++
	c.Revision = s.revision
	fns := make([]func(Change), 0, len(s.observers))
	for i := 0; i < s.nextObs; i++ {
		if fn, ok := s.observers[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}

// Snapshot copies the current state of every collection.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Revision:   s.Revision(),
		Expenses:   s.Expenses.List(),
		Categories: s.Categories.ListAll(),
		Visible:    s.Categories.List(),
		Settings:   s.Settings.Get(),
	}
}

// PurgeCategory physically removes a custom category that no expense
// references. Referenced or built-in categories are refused; use
// Categories.Delete to hide them instead.
func (s *Store) PurgeCategory(ctx context.Context, id string) error {
	return s.Categories.purge(ctx, id, s.Expenses.Referenced(id))
}

// Merge adds the expenses and custom categories that are not present yet.
// Both collections are committed together: when the second save fails the
// first one is rolled back and nothing changes in memory.
func (s *Store) Merge(ctx context.Context, expenses []core.Expense, categories []core.Category) (MergeResult, error) {
	cats := s.Categories
	exps := s.Expenses

	cats.mu.Lock()
	exps.mu.Lock()

	nextExpenses, addedExpenses := exps.planMerge(expenses)
	nextCategories, addedCategories := cats.planMerge(categories)
	result := MergeResult{Expenses: len(addedExpenses), Categories: addedCategories}

	if result.Expenses > 0 {
		if err := storage.SaveJSON(ctx, s.adapter, storage.KeyExpenses, nextExpenses); err != nil {
			exps.mu.Unlock()
			cats.mu.Unlock()
			return MergeResult{}, fmt.Errorf("merge expenses: %w", err)
		}
	}
	if result.Categories > 0 {
		if err := storage.SaveJSON(ctx, s.adapter, storage.KeyCategories, customOnly(nextCategories)); err != nil {
			if result.Expenses > 0 {
				if rbErr := storage.SaveJSON(ctx, s.adapter, storage.KeyExpenses, exps.items); rbErr != nil {
					err = errors.Join(err, fmt.Errorf("rollback expenses: %w", rbErr))
				}
			}
			exps.mu.Unlock()
			cats.mu.Unlock()
			return MergeResult{}, fmt.Errorf("merge categories: %w", err)
		}
	}

	if result.Expenses > 0 {
		exps.items = nextExpenses
	}
	if result.Categories > 0 {
		cats.all = nextCategories
	}
	exps.mu.Unlock()
	cats.mu.Unlock()

	if result.Expenses > 0 || result.Categories > 0 {
		s.commit(Change{Kind: ChangeImported, Collection: CollectionExpenses})
	}
	return result, nil
}
