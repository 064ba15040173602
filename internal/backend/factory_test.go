package backend

import (
	"context"
	"path/filepath"
	"testing"

	"financas/internal/config"
	"financas/internal/core"
	"financas/internal/sheets/memory"
	"financas/internal/sheets/xlsx"
	"financas/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAppConfig(t *testing.T) {
	app := &config.Config{
		LedgerFile:          "ledger.xlsx",
		GoogleSpreadsheetID: "sheet-id",
		GoogleSheetName:     "Financas",
		S3Bucket:            "bucket",
		S3Key:               "financas.xlsx",
		S3Endpoint:          "http://localhost:9000",
	}

	cfg, err := FromAppConfig(app, "sheets")
	require.NoError(t, err)
	assert.Equal(t, SheetsBackend, cfg.Type)
	assert.Equal(t, "sheet-id", cfg.Google.SpreadsheetID)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	assert.Equal(t, "ledger.xlsx", cfg.LedgerFile)

	_, err = FromAppConfig(app, "postgres")
	assert.ErrorContains(t, err, "invalid backend type")

	_, err = FromAppConfig(nil, "xlsx")
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "xlsx", config: Config{Type: XLSXBackend, LedgerFile: "a.xlsx"}},
		{name: "xlsx without file", config: Config{Type: XLSXBackend}, wantErr: true},
		{name: "memory", config: Config{Type: MemoryBackend}},
		{name: "sqlite without path", config: Config{Type: SQLiteBackend}, wantErr: true},
		{name: "sheets without id", config: Config{Type: SheetsBackend}, wantErr: true},
		{name: "s3 without bucket", config: Config{Type: S3Backend}, wantErr: true},
		{name: "unknown", config: Config{Type: "ftp"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)
	dir := t.TempDir()

	t.Run("xlsx", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: XLSXBackend, LedgerFile: filepath.Join(dir, "financas.xlsx")})
		require.NoError(t, err)
		defer res.Close()
		fs, ok := res.Store.(*xlsx.FileStore)
		require.True(t, ok)
		assert.Equal(t, filepath.Join(dir, "financas.xlsx"), fs.Path())
	})

	t.Run("memory", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: MemoryBackend})
		require.NoError(t, err)
		_, ok := res.Store.(*memory.Store)
		assert.True(t, ok)
		assert.NoError(t, res.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		res, err := f.CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "financas.db")})
		require.NoError(t, err)
		_, ok := res.Store.(*storage.SQLiteRepository)
		require.True(t, ok)

		row := core.Row{Date: "2024-01-10", Type: "Receita", Category: "Salário", Amount: "1000.00"}
		require.NoError(t, res.Store.Save(ctx, []core.Row{row}))
		rows, err := res.Store.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, []core.Row{row}, rows)
		assert.NoError(t, res.Close())
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := f.CreateBackend(ctx, Config{Type: SheetsBackend})
		assert.Error(t, err)
	})
}
