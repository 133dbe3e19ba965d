package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"okane/internal/core"
	"okane/internal/storage"
)

// Expenses holds the expense list, most recent insertion first.
// It performs no validation; callers check amounts and dates.
type Expenses struct {
	adapter storage.Adapter
	newID   func() string
	clock   func() time.Time
	commit  func(Change)

	mu    sync.Mutex
	items []core.Expense
}

// NewExpense is the input of Add. ID and timestamp are assigned by the store.
type NewExpense struct {
	Amount      core.Money
	CategoryID  string
	Description string
	Date        core.Date
}

// ExpensePatch merges the non-nil fields into an existing expense.
type ExpensePatch struct {
	Amount      *core.Money
	CategoryID  *string
	Description *string
	Date        *core.Date
	Timestamp   *core.Millis
}

func (e *Expenses) load(ctx context.Context) {
	var items []core.Expense
	if !storage.LoadJSON(ctx, e.adapter, storage.KeyExpenses, &items) {
		items = nil
	}
	e.mu.Lock()
	e.items = items
	e.mu.Unlock()
}

// List returns a copy of every expense in store order.
func (e *Expenses) List() []core.Expense {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

func (e *Expenses) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.items)
}

func (e *Expenses) Get(id string) (core.Expense, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(id)
	if i < 0 {
		return core.Expense{}, false
	}
	return e.items[i], true
}

// Add stores a new expense at the head of the list.
func (e *Expenses) Add(ctx context.Context, in NewExpense) (core.Expense, error) {
	e.mu.Lock()
	exp := core.Expense{
		ID:          e.newID(),
		Amount:      in.Amount,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Date:        in.Date,
		Timestamp:   core.MillisOf(e.clock()),
	}
	next := make([]core.Expense, 0, len(e.items)+1)
	next = append(next, exp)
	next = append(next, e.items...)
	if err := storage.SaveJSON(ctx, e.adapter, storage.KeyExpenses, next); err != nil {
		e.mu.Unlock()
		return core.Expense{}, err
	}
	e.items = next
	e.mu.Unlock()

	slog.InfoContext(ctx, "Expense added",
		"id", exp.ID,
		"amount", exp.Amount.String(),
		"category", exp.CategoryID,
		"date", exp.Date.String())
	e.commit(Change{Kind: ChangeAdded, Collection: CollectionExpenses, ID: exp.ID})
	return exp, nil
}

// Update merges patch into the expense with the given id. The id itself
// never changes.
func (e *Expenses) Update(ctx context.Context, id string, patch ExpensePatch) (core.Expense, error) {
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		return core.Expense{}, fmt.Errorf("%w: %s", ErrExpenseNotFound, id)
	}
	exp := e.items[i]
	if patch.Amount != nil {
		exp.Amount = *patch.Amount
	}
	if patch.CategoryID != nil {
		exp.CategoryID = *patch.CategoryID
	}
	if patch.Description != nil {
		exp.Description = *patch.Description
	}
	if patch.Date != nil {
		exp.Date = *patch.Date
	}
	if patch.Timestamp != nil {
		exp.Timestamp = *patch.Timestamp
	}

	next := slices.Clone(e.items)
	next[i] = exp
	if err := storage.SaveJSON(ctx, e.adapter, storage.KeyExpenses, next); err != nil {
		e.mu.Unlock()
		return core.Expense{}, err
	}
	e.items = next
	e.mu.Unlock()

	e.commit(Change{Kind: ChangeUpdated, Collection: CollectionExpenses, ID: id})
	return exp, nil
}

// Delete removes the expense. Deleting an unknown id is not an error.
func (e *Expenses) Delete(ctx context.Context, id string) error {
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		return nil
	}
	next := slices.Delete(slices.Clone(e.items), i, i+1)
	if err := storage.SaveJSON(ctx, e.adapter, storage.KeyExpenses, next); err != nil {
		e.mu.Unlock()
		return err
	}
	e.items = next
	e.mu.Unlock()

	slog.InfoContext(ctx, "Expense deleted", "id", id)
	e.commit(Change{Kind: ChangeDeleted, Collection: CollectionExpenses, ID: id})
	return nil
}

// Referenced reports whether any expense points at categoryID.
func (e *Expenses) Referenced(categoryID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.ContainsFunc(e.items, func(x core.Expense) bool { return x.CategoryID == categoryID })
}

// planMerge appends the incoming expenses whose id is not known yet. Empty
// ids and repeats within incoming are skipped. Must be called with e.mu held.
func (e *Expenses) planMerge(incoming []core.Expense) ([]core.Expense, []core.Expense) {
	present := make(map[string]struct{}, len(e.items)+len(incoming))
	for _, x := range e.items {
		present[x.ID] = struct{}{}
	}
	var added []core.Expense
	for _, x := range incoming {
		if x.ID == "" {
			continue
		}
		if _, ok := present[x.ID]; ok {
			continue
		}
		present[x.ID] = struct{}{}
		added = append(added, x)
	}
	next := make([]core.Expense, 0, len(e.items)+len(added))
	next = append(next, e.items...)
	next = append(next, added...)
	return next, added
}

func (e *Expenses) indexOf(id string) int {
	return slices.IndexFunc(e.items, func(x core.Expense) bool { return x.ID == id })
}
