package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ledgerMigrationsTable records the applied ledger schema version.
const ledgerMigrationsTable = "ledger_schema_migrations"

// ErrDirtySchema is returned when an earlier migration stopped halfway and the
// ledger table must be repaired by hand.
var ErrDirtySchema = errors.New("ledger schema is dirty")

// RunMigrations brings the ledger schema at dbPath up to date and returns the
// schema version. It uses its own connection, which the migrate driver closes
// when done.
func RunMigrations(dbPath string) (uint, error) {
	migrateDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open migration database: %w", err)
	}
	defer migrateDB.Close()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{MigrationsTable: ledgerMigrationsTable})
	if err != nil {
		return 0, fmt.Errorf("create sqlite driver: %w", err)
	}
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, fmt.Errorf("load ledger migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return 0, fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if version, dirty, err := m.Version(); err == nil && dirty {
		return version, fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("migrate ledger schema: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read ledger schema version: %w", err)
	}
	return version, nil
}
