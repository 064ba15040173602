package backend

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/sheets/google"
	"financas/internal/sheets/memory"
	"financas/internal/sheets/s3store"
	"financas/internal/sheets/xlsx"
	"financas/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case XLSXBackend:
		f.logger.Info("Initialized xlsx backend", "path", config.LedgerFile)
		return &Result{Store: xlsx.NewFileStore(config.LedgerFile)}, nil
	case MemoryBackend:
		f.logger.Warn("Initialized memory backend, the ledger is lost on restart")
		return &Result{Store: memory.New()}, nil
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case SheetsBackend:
		return f.createSheetsBackend(ctx, config)
	case S3Backend:
		return f.createS3Backend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &Result{Store: repo, Cleanup: repo.Close}, nil
}

func (f *DefaultFactory) createSheetsBackend(ctx context.Context, config Config) (*Result, error) {
	store, err := google.NewFromConfig(ctx, config.Google)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets backend", "sheet", config.Google.SheetName)

	return &Result{Store: store}, nil
}

func (f *DefaultFactory) createS3Backend(ctx context.Context, config Config) (*Result, error) {
	store, err := s3store.New(ctx, config.S3)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 store: %w", err)
	}

	f.logger.Info("Initialized S3 backend",
		"bucket", config.S3.Bucket,
		"key", config.S3.Key,
		"custom_endpoint", config.S3.Endpoint != "")

	return &Result{Store: store}, nil
}
