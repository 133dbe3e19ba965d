package core

import (
	"errors"
	"strings"
	"time"
)

const (
	FrequencyOff     Frequency = "off"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Display fallbacks for expenses whose category can no longer be resolved.
const (
	FallbackEmoji     = "💰"
	UncategorizedName = "Uncategorized"
	OtherName         = "Other"
	UnknownName       = "Unknown"
)

type (
	// Frequency drives automatic export scheduling.
	Frequency string

	Category struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Emoji    string `json:"emoji"`
		IsCustom bool   `json:"isCustom"`
	}

	Expense struct {
		ID          string `json:"id"`
		Amount      Money  `json:"amount"`
		CategoryID  string `json:"categoryId"`
		Description string `json:"description"`
		Date        Date   `json:"date"`
		Timestamp   Millis `json:"timestamp"` // creation instant
	}

	ExportSettings struct {
		Frequency       Frequency `json:"frequency"`
		LastExport      Millis    `json:"lastExport"`
		ExportPath      string    `json:"exportPath,omitempty"`
		ExportPathLabel string    `json:"exportPathLabel,omitempty"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidFrequency = errors.New("invalid export frequency")
)

var builtinCategories = []Category{
	{ID: "1", Name: "Food", Emoji: "🍔"},
	{ID: "2", Name: "Transport", Emoji: "🚗"},
	{ID: "3", Name: "Shopping", Emoji: "🛍️"},
	{ID: "4", Name: "Health", Emoji: "💊"},
	{ID: "5", Name: "Entertainment", Emoji: "🎬"},
	{ID: "6", Name: "Bills", Emoji: "🧾"},
}

// BuiltinCategories returns a fresh copy of the seeded category table.
func BuiltinCategories() []Category {
	out := make([]Category, len(builtinCategories))
	copy(out, builtinCategories)
	return out
}

// IsBuiltinID reports whether id belongs to the seeded table.
func IsBuiltinID(id string) bool {
	for _, c := range builtinCategories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// DefaultExportSettings is used when nothing has been persisted yet.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{Frequency: FrequencyOff}
}

func (f Frequency) Validate() error {
	switch f {
	case FrequencyOff, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

// ParseFrequency accepts the frequency names case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if err := f.Validate(); err != nil {
		return "", err
	}
	return f, nil
}

// ValidateNewExpense performs the form-level checks that the expense store
// deliberately leaves to its callers.
func ValidateNewExpense(amount Money, categoryID string, date Date) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(categoryID) == "" {
		return ErrEmptyCategory
	}
	if err := date.Validate(); err != nil {
		return err
	}
	return nil
}

// CreatedAt returns the creation instant of the expense.
func (e Expense) CreatedAt() time.Time {
	return e.Timestamp.Time()
}
