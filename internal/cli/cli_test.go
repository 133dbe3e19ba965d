package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okane/internal/config"
	"okane/internal/core"
	"okane/internal/store"
	"okane/internal/transfer"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Backend:            "file",
		DataDir:            t.TempDir(),
		ExportDir:          t.TempDir(),
		CacheDir:           t.TempDir(),
		TimeZone:           "UTC",
		AutoExportInterval: time.Minute,
		CacheSize:          16,
		LogLevel:           "error",
		LogFormat:          "text",
	}
}

func TestNewAppWiresChain(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, []string{"custom-directory", "downloads", "share"}, app.Chain.Strategies())
	assert.Len(t, app.Store.Categories.List(), len(core.BuiltinCategories()))
}

func TestNewAppRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backend = "postgres"
	_, err := NewApp(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestAppPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	app, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	_, err = app.Store.Expenses.Add(ctx, store.NewExpense{
		Amount:     core.Money{Cents: 1250},
		CategoryID: "1",
		Date:       core.NewDate(2024, 3, 10),
	})
	require.NoError(t, err)
	require.NoError(t, app.Close())

	reopened, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, 1, reopened.Store.Expenses.Len())
}

func TestExportFallsBackToDownloads(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	app, err := NewApp(ctx, cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	receipt, err := app.Transfer.Export(ctx, transfer.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "downloads", receipt.Strategy)

	_, err = os.Stat(receipt.Destination)
	assert.NoError(t, err)
	assert.Equal(t, cfg.ExportDir, filepath.Dir(receipt.Destination))
	assert.NotZero(t, app.Store.Settings.Get().LastExport)
}

func TestCloseRunsInReverseOrder(t *testing.T) {
	app := &App{}
	var order []int
	app.OnClose(func() error { order = append(order, 1); return nil })
	app.OnClose(func() error { order = append(order, 2); return nil })
	require.NoError(t, app.Close())
	assert.Equal(t, []int{2, 1}, order)
}
