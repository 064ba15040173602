package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"financas/internal/config"
	"financas/internal/core"
	"financas/internal/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	logger := SetupLogger("debug", log.ComponentWorker)
	assert.Equal(t, log.ComponentWorker, logger.Component())
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	logger = SetupLogger("loud", log.ComponentApp)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	logger := SetupLogger("error", log.ComponentApp)
	cfg := &config.Config{LedgerFile: filepath.Join(t.TempDir(), "financas.xlsx")}

	result, err := openStore(ctx, logger, cfg, config.BackendXLSX)
	require.NoError(t, err)
	defer result.Close()

	row := core.Row{Date: "2024-01-10", Type: "Receita", Category: "Salário", Amount: "1000", Description: "x"}
	require.NoError(t, result.Store.Save(ctx, []core.Row{row}))
	rows, err := result.Store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = openStore(ctx, logger, cfg, "ftp")
	assert.Error(t, err)

	_, err = openStore(ctx, logger, cfg, config.BackendSheets)
	assert.Error(t, err, "sheets needs a spreadsheet id")
}
