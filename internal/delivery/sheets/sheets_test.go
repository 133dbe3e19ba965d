package sheets

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okane/internal/core"
	"okane/internal/delivery"
	"okane/internal/transfer"
)

type fakeWorkbook struct {
	tabs    map[string][][]any
	failAdd error
}

func (f *fakeWorkbook) EnsureTab(_ context.Context, title string) error {
	if f.failAdd != nil {
		return f.failAdd
	}
	if _, ok := f.tabs[title]; !ok {
		f.tabs[title] = nil
	}
	return nil
}

func (f *fakeWorkbook) Replace(_ context.Context, title string, rows [][]any) error {
	f.tabs[title] = rows
	return nil
}

func (f *fakeWorkbook) Ref(title string) string { return "fake/" + title }

var (
	now        = time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	categories = []core.Category{{ID: "1", Name: "Food", Emoji: "🍔"}}
	expenses   = []core.Expense{
		{ID: "a", Amount: core.Money{Cents: 1250}, CategoryID: "1", Description: "pizza", Date: core.NewDate(2024, 3, 14)},
	}
)

func TestDeliverCSV(t *testing.T) {
	book := &fakeWorkbook{tabs: map[string][][]any{}}
	p, err := transfer.Export(expenses, categories, transfer.FormatCSV, now)
	require.NoError(t, err)

	dest, err := New(book).Deliver(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "fake/okane-export-2024-03-15", dest)

	rows := book.tabs["okane-export-2024-03-15"]
	require.Len(t, rows, 2)
	assert.Equal(t, []any{"Date", "Amount", "Category", "Description"}, rows[0])
	assert.Equal(t, []any{"2024-03-14", "12.50", "Food", "pizza"}, rows[1])
}

func TestDeliverJSONFlattensBackup(t *testing.T) {
	book := &fakeWorkbook{tabs: map[string][][]any{}}
	p, err := transfer.Export(expenses, categories, transfer.FormatJSON, now)
	require.NoError(t, err)

	_, err = New(book).Deliver(context.Background(), p)
	require.NoError(t, err)
	rows := book.tabs["okane-export-2024-03-15"]
	require.Len(t, rows, 2)
	assert.Equal(t, "Food", rows[1][2])
}

func TestDeliverErrors(t *testing.T) {
	_, err := New(nil).Deliver(context.Background(), delivery.Payload{Filename: "x.csv"})
	assert.ErrorIs(t, err, delivery.ErrNotConfigured)

	book := &fakeWorkbook{tabs: map[string][][]any{}, failAdd: errors.New("quota")}
	_, err = New(book).Deliver(context.Background(), delivery.Payload{Filename: "x.csv", Data: []byte("a,b\n")})
	assert.ErrorIs(t, err, book.failAdd)

	_, err = New(&fakeWorkbook{tabs: map[string][][]any{}}).Deliver(context.Background(), delivery.Payload{Filename: "x.pdf"})
	assert.Error(t, err)
}

func TestTabTitle(t *testing.T) {
	assert.Equal(t, "okane-export-2024-03-15", TabTitle("okane-export-2024-03-15.json"))
	assert.Equal(t, "noext", TabTitle("noext"))
	assert.Equal(t, "'it''s'", quoteTitle("it's"))
}

func TestNewGoogleWorkbookRequiresSpreadsheet(t *testing.T) {
	_, err := NewGoogleWorkbook(context.Background(), "  ", Credentials{})
	require.Error(t, err)
	assert.Equal(t, "missing GOOGLE_SPREADSHEET_ID", err.Error())
}

func TestNewGoogleWorkbookMissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := NewGoogleWorkbook(context.Background(), "sheet-id", Credentials{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing service account credentials")

	_, err = NewGoogleWorkbook(context.Background(), "sheet-id", Credentials{File: "/does/not/exist.json"})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
