package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"financas/internal/core"
	"financas/internal/sheets"
)

var _ sheets.LedgerStore = (*FileStore)(nil)

// FileStore keeps the ledger in a workbook on the local filesystem.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the workbook location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the workbook. A missing file is an empty ledger.
func (s *FileStore) Load(ctx context.Context) ([]core.Row, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "Ledger file not found, starting empty", "path", s.path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	rows, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return rows, nil
}

// Save writes the whole ledger to a temporary file next to the target and
// renames it into place.
func (s *FileStore) Save(ctx context.Context, rows []core.Row) error {
	data, err := Encode(rows)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".ledger-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	slog.DebugContext(ctx, "Ledger file written", "path", s.path, "rows", len(rows))
	return nil
}
