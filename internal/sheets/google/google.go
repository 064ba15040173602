// Package google keeps the ledger in a Google spreadsheet, using the same five
// columns as the workbook file.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"financas/internal/core"
	"financas/internal/sheets"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

var _ sheets.LedgerStore = (*Store)(nil)

// Config selects the spreadsheet and the credentials used to reach it.
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Store struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New wraps an existing Sheets service.
func New(svc *gsheet.Service, spreadsheetID, sheetName string) *Store {
	return &Store{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

// NewFromConfig creates a Sheets service with service account credentials.
// GOOGLE_APPLICATION_CREDENTIALS is honoured when no credentials are configured.
func NewFromConfig(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	creds, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Creating Google Sheets service",
		"credentials_size", len(creds),
		"sheet", cfg.SheetName)

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return New(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.ServiceAccountJSON)
	file := strings.TrimSpace(cfg.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func (s *Store) dataRange() string {
	return fmt.Sprintf("%s!A:E", s.sheetName)
}

// Load reads the ledger columns. A sheet that does not exist yet reads as empty.
func (s *Store) Load(ctx context.Context) ([]core.Row, error) {
	if s.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := s.dataRange()
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			slog.DebugContext(ctx, "Ledger sheet not found, starting empty", "range", rng)
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	values := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		values[i] = toStrings(row)
	}
	rows, err := sheets.RowsFromTable(values)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rng, err)
	}
	return rows, nil
}

// Save clears the ledger columns and writes the header plus every row.
func (s *Store) Save(ctx context.Context, rows []core.Row) error {
	if s.svc == nil {
		return errors.New("sheets service not initialized")
	}
	rng := s.dataRange()
	_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil && isMissingSheet(err) {
		err = s.addSheet(ctx)
	}
	if err != nil {
		return fmt.Errorf("clear %s: %w", rng, err)
	}

	vr := &gsheet.ValueRange{Values: toValues(rows)}
	if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	slog.DebugContext(ctx, "Ledger sheet written", "range", rng, "rows", len(rows))
	return nil
}

// addSheet creates the ledger tab in the spreadsheet.
func (s *Store) addSheet(ctx context.Context) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: s.sheetName},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", s.sheetName, err)
	}
	slog.InfoContext(ctx, "Ledger sheet created", "sheet", s.sheetName)
	return nil
}

// toValues lays out the header and rows. Amounts that parse are sent as numbers.
func toValues(rows []core.Row) [][]interface{} {
	out := make([][]interface{}, 0, len(rows)+1)
	header := make([]interface{}, len(core.Columns))
	for i, c := range core.Columns {
		header[i] = c
	}
	out = append(out, header)
	for _, r := range rows {
		var amount interface{} = r.Amount
		if m, err := core.ParseStoredAmount(r.Amount); err == nil {
			amount = m.Reais()
		}
		out = append(out, []interface{}{r.Date, r.Type, r.Category, amount, r.Description})
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		case nil:
			out[i] = ""
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

// isMissingSheet reports whether err means the tab has not been created. A 404
// means the spreadsheet itself is wrong and is not treated as missing.
func isMissingSheet(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusBadRequest &&
		strings.Contains(strings.ToLower(gerr.Message), "unable to parse range")
}
