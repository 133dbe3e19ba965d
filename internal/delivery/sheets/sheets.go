// Package sheets delivers exports into a Google Sheets spreadsheet, one tab
// per export file.
package sheets

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"okane/internal/delivery"
	"okane/internal/transfer"
)

// Workbook is the subset of spreadsheet operations the strategy needs.
type Workbook interface {
	// EnsureTab creates the tab when missing.
	EnsureTab(ctx context.Context, title string) error
	// Replace clears the tab and writes rows starting at A1.
	Replace(ctx context.Context, title string, rows [][]any) error
	// Ref identifies a tab for receipts.
	Ref(title string) string
}

// Strategy writes the export as a table. CSV payloads are copied as-is;
// JSON backups are flattened the same way the CSV export does.
type Strategy struct {
	book Workbook
}

var _ delivery.Strategy = (*Strategy)(nil)

func New(book Workbook) *Strategy {
	return &Strategy{book: book}
}

func (s *Strategy) Name() string { return "google-sheets" }

func (s *Strategy) Deliver(ctx context.Context, p delivery.Payload) (string, error) {
	if s.book == nil {
		return "", delivery.ErrNotConfigured
	}
	records, err := tableOf(p)
	if err != nil {
		return "", err
	}

	title := TabTitle(p.Filename)
	if err := s.book.EnsureTab(ctx, title); err != nil {
		return "", fmt.Errorf("ensure tab %s: %w", title, err)
	}
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		rows[i] = row
	}
	if err := s.book.Replace(ctx, title, rows); err != nil {
		return "", fmt.Errorf("write tab %s: %w", title, err)
	}
	return s.book.Ref(title), nil
}

// TabTitle strips the extension from an export filename.
func TabTitle(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i > 0 {
		return filename[:i]
	}
	return filename
}

func tableOf(p delivery.Payload) ([][]string, error) {
	switch {
	case strings.HasSuffix(p.Filename, "."+string(transfer.FormatCSV)):
		records, err := csv.NewReader(bytes.NewReader(p.Data)).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv payload: %w", err)
		}
		return records, nil
	case strings.HasSuffix(p.Filename, "."+string(transfer.FormatJSON)):
		backup, err := transfer.Decode(p.Data)
		if err != nil {
			return nil, err
		}
		return append([][]string{transfer.CSVHeader}, transfer.Rows(backup.Expenses, backup.Categories)...), nil
	default:
		return nil, errors.New("unsupported payload for sheets delivery: " + p.Filename)
	}
}
