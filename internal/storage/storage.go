// Package storage is the persistence boundary: named JSON records stored in a
// durable key/value backend.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Fixed keys, one per logical collection.
const (
	KeyExpenses         = "okane_expenses"
	KeyCategories       = "okane_categories" // custom categories only
	KeyHiddenCategories = "okane_hidden_categories"
	KeyCategoryOrder    = "okane_category_order"
	KeyExportSettings   = "okane_export_settings"
)

var ErrEmptyKey = errors.New("empty storage key")

// Adapter reads and writes named records. Load reports ok=false when the key
// has never been written.
type Adapter interface {
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Save(ctx context.Context, key string, data []byte) error
}

// Keys lists every key the application writes.
func Keys() []string {
	return []string{KeyExpenses, KeyCategories, KeyHiddenCategories, KeyCategoryOrder, KeyExportSettings}
}

// LoadJSON decodes the record stored under key into dst. Missing records,
// read failures and malformed JSON are all reported as absent so callers fall
// back to their defaults. A malformed record may still leave dst partially
// filled, so callers must reset dst when LoadJSON returns false.
func LoadJSON(ctx context.Context, a Adapter, key string, dst any) bool {
	data, ok, err := a.Load(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read persisted record, using defaults", "key", key, "error", err)
		return false
	}
	if !ok || len(data) == 0 {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		slog.WarnContext(ctx, "Malformed persisted record, using defaults", "key", key, "error", err)
		return false
	}
	return true
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(ctx context.Context, a Adapter, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := a.Save(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
