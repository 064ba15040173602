package backend

import (
	"context"

	"financas/internal/sheets"
	"financas/internal/sheets/google"
	"financas/internal/sheets/s3store"
)

// CleanupFunc releases resources held by a store.
type CleanupFunc func() error

// Result contains the store and an optional cleanup function.
type Result struct {
	Store   sheets.LedgerStore
	Cleanup CleanupFunc
}

// Close runs the cleanup function, if any.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates ledger stores based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for store creation
type Config struct {
	Type BackendType

	// xlsx
	LedgerFile string

	// sqlite
	SQLiteDBPath string

	// sheets
	Google google.Config

	// s3
	S3 s3store.Config
}

// BackendType represents the type of backend
type BackendType string

const (
	XLSXBackend   BackendType = "xlsx"
	MemoryBackend BackendType = "memory"
	SheetsBackend BackendType = "sheets"
	S3Backend     BackendType = "s3"
	SQLiteBackend BackendType = "sqlite"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case XLSXBackend, MemoryBackend, SheetsBackend, S3Backend, SQLiteBackend:
		return true
	default:
		return false
	}
}
