package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"okane/internal/core"
)

// ErrInvalidFormat is returned for files that are not a JSON backup.
var ErrInvalidFormat = errors.New("the selected file is not a valid JSON backup")

// Result counts the records an import actually added.
type Result struct {
	ExpensesImported   int `json:"expensesImported"`
	CategoriesImported int `json:"categoriesImported"`
}

// Decode parses a backup file. Either top-level key may be missing; keys
// whose value is not an array are ignored, as are unknown keys. Anything
// that is not a JSON object is rejected.
func Decode(data []byte) (Backup, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Backup{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if top == nil {
		return Backup{}, ErrInvalidFormat
	}

	var b Backup
	if raw, ok := top["expenses"]; ok && isArray(raw) {
		if err := json.Unmarshal(raw, &b.Expenses); err != nil {
			return Backup{}, fmt.Errorf("%w: expenses: %v", ErrInvalidFormat, err)
		}
	}
	if raw, ok := top["categories"]; ok && isArray(raw) {
		if err := json.Unmarshal(raw, &b.Categories); err != nil {
			return Backup{}, fmt.Errorf("%w: categories: %v", ErrInvalidFormat, err)
		}
	}
	return b, nil
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

// Categories in a backup are merged only when flagged custom; built-ins are
// always rebuilt from the local table.
func customCategories(in []core.Category) []core.Category {
	var out []core.Category
	for _, c := range in {
		if c.IsCustom {
			out = append(out, c)
		}
	}
	return out
}
