package xlsx

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"financas/internal/core"
	"financas/internal/ledger"
	"financas/internal/sheets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleLedger() core.Ledger {
	return core.Ledger{
		{Date: core.NewDate(2024, 1, 10), Type: core.Income, Category: core.Salary, Amount: core.Money{Cents: 100000}},
		{Date: core.NewDate(2024, 1, 15), Type: core.Expense, Category: core.CreditCard, Amount: core.Money{Cents: 30012}, Description: "mercado e farmácia"},
		{Date: core.NewDate(2024, 2, 1), Type: core.Income, Category: core.Other, Amount: core.Money{Cents: 5000}},
		{Date: core.NewDate(2024, 2, 3), Type: core.Expense, Category: core.FixedExpense, Amount: core.Money{Cents: 0}, Description: "isento"},
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "financas.xlsx"))
	rows, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "financas.xlsx")
	s := NewFileStore(path)

	want := sampleLedger()
	require.NoError(t, s.Save(ctx, ledger.Rows(want)))

	rows, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rows, len(want))
	assert.Equal(t, want, ledger.Normalize(rows))
	assert.Equal(t, "mercado e farmácia", rows[1].Description)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileStoreClearLeavesHeaderOnly(t *testing.T) {
	ctx := context.Background()
	s := NewFileStore(filepath.Join(t.TempDir(), "financas.xlsx"))
	require.NoError(t, s.Save(ctx, ledger.Rows(sampleLedger())))
	require.NoError(t, s.Save(ctx, nil))

	rows, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecodeLegacyWorkbook(t *testing.T) {
	// Columns out of order, a blank row and a malformed date, as an older
	// export might have them.
	f := excelize.NewFile()
	defer f.Close()
	lines := [][]interface{}{
		{"Tipo", "Data", "Valor", "Subcategoria", "Descrição"},
		{"Receita", "2024-01-10 00:00:00", 1000, "Salário", ""},
		{},
		{"Despesa", "??", 12.5, "Gastos Fixos", "água"},
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &line))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Receita", rows[0].Type)
	assert.Equal(t, "Salário", rows[0].Category)
	assert.Equal(t, "água", rows[1].Description)

	l := ledger.Normalize(rows)
	require.Len(t, l, 1, "row with an unparseable date is dropped")
	assert.Equal(t, int64(100000), l[0].Amount.Cents)
}

func TestDecodeMissingColumn(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	header := []interface{}{"Data", "Tipo", "Valor"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = Decode(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, sheets.ErrMissingColumn)
}

func TestEncodeKeepsDescriptionSpaces(t *testing.T) {
	want := core.Ledger{
		{Date: core.NewDate(2024, 1, 10), Type: core.Income, Category: core.Other, Amount: core.Money{Cents: 500}, Description: "  pix da Ana "},
	}
	b, err := Encode(ledger.Rows(want))
	require.NoError(t, err)

	rows, err := Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, want, ledger.Normalize(rows))
}
