// Package storage keeps the ledger rows in a SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"financas/internal/core"
	"financas/internal/sheets"

	_ "modernc.org/sqlite"
)

var _ sheets.LedgerStore = (*SQLiteRepository)(nil)

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (or creates) the database at dbPath and applies
// pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("Ledger schema ready", "path", dbPath, "version", version)

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks the database connection.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Load returns every row ordered by its position in the ledger.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Row, error) {
	rs, err := r.db.QueryContext(ctx,
		`SELECT data, tipo, subcategoria, valor, descricao FROM ledger_rows ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query ledger rows: %w", err)
	}
	defer rs.Close()

	var out []core.Row
	for rs.Next() {
		var row core.Row
		if err := rs.Scan(&row.Date, &row.Type, &row.Category, &row.Amount, &row.Description); err != nil {
			return nil, fmt.Errorf("scan ledger row: %w", err)
		}
		out = append(out, row)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger rows: %w", err)
	}
	return out, nil
}

// Save replaces the stored ledger in a single transaction.
func (r *SQLiteRepository) Save(ctx context.Context, rows []core.Row) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ledger_rows`); err != nil {
		return fmt.Errorf("delete ledger rows: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO ledger_rows (position, data, tipo, subcategoria, valor, descricao) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if _, err := stmt.ExecContext(ctx, i, row.Date, row.Type, row.Category, row.Amount, row.Description); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ledger: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite", "rows", len(rows))
	return nil
}
