// Package xlsx stores the ledger as a single-sheet Excel workbook with the
// columns Data, Tipo, Subcategoria, Valor and Descrição.
package xlsx

import (
	"fmt"
	"io"

	"financas/internal/core"
	"financas/internal/sheets"

	"github.com/xuri/excelize/v2"
)

// SheetName is the sheet written by Encode.
const SheetName = "Sheet1"

// ContentType is the MIME type of an encoded workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Encode writes rows into a new workbook and returns its bytes. Amounts that
// parse are written as numeric cells so the sheet stays usable in a spreadsheet.
func Encode(rows []core.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(core.Columns))
	for i, c := range core.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		var amount interface{} = r.Amount
		if m, err := core.ParseStoredAmount(r.Amount); err == nil {
			amount = m.Reais()
		}
		values := []interface{}{r.Date, r.Type, r.Category, amount, r.Description}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads the first sheet of a workbook. Cells are read unformatted, so
// numbers and dates come back as plain values or serial day numbers.
func Decode(r io.Reader) ([]core.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, nil
	}
	values, err := f.GetRows(sheetList[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetList[0], err)
	}
	return sheets.RowsFromTable(values)
}
