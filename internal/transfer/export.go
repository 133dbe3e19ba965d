// Package transfer converts the dataset to and from portable backup files.
package transfer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"okane/internal/core"
	"okane/internal/delivery"
)

// AppName prefixes every export filename.
const AppName = "okane"

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("unknown export format")

// CSVHeader is the first row of CSV exports.
var CSVHeader = []string{"Date", "Amount", "Category", "Description"}

// Backup is the JSON document shape shared by export and import.
type Backup struct {
	Expenses   []core.Expense  `json:"expenses"`
	Categories []core.Category `json:"categories"`
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Filename returns "<app>-export-YYYY-MM-DD.<ext>" using the UTC calendar day
// of now, so the name does not depend on the device time zone.
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("%s-export-%s.%s", AppName, core.DateOf(now.UTC()), format)
}

// Export serializes expenses and the full category catalog. Category names in
// CSV rows are resolved against categories, falling back to "Unknown".
func Export(expenses []core.Expense, categories []core.Category, format Format, now time.Time) (delivery.Payload, error) {
	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case FormatJSON:
		contentType = "application/json"
		data, err = encodeJSON(expenses, categories)
	case FormatCSV:
		contentType = "text/csv"
		data, err = encodeCSV(expenses, categories)
	default:
		return delivery.Payload{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return delivery.Payload{}, fmt.Errorf("encode %s export: %w", format, err)
	}
	return delivery.Payload{
		Filename:    Filename(format, now),
		ContentType: contentType,
		Data:        data,
	}, nil
}

func encodeJSON(expenses []core.Expense, categories []core.Category) ([]byte, error) {
	b := Backup{Expenses: expenses, Categories: categories}
	if b.Expenses == nil {
		b.Expenses = []core.Expense{}
	}
	if b.Categories == nil {
		b.Categories = []core.Category{}
	}
	return json.MarshalIndent(b, "", "  ")
}

// Rows flattens expenses into CSV records, header excluded.
func Rows(expenses []core.Expense, categories []core.Category) [][]string {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		name, ok := names[e.CategoryID]
		if !ok || name == "" {
			name = core.UnknownName
		}
		rows = append(rows, []string{e.Date.String(), e.Amount.String(), name, e.Description})
	}
	return rows
}

func encodeCSV(expenses []core.Expense, categories []core.Category) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return nil, err
	}
	if err := w.WriteAll(Rows(expenses, categories)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
