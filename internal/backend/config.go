package backend

import (
	"fmt"

	"financas/internal/config"
	"financas/internal/sheets/google"
	"financas/internal/sheets/s3store"
)

// FromAppConfig builds the store configuration for the named backend, so the
// same settings serve both DATA_BACKEND and MIRROR_BACKEND.
func FromAppConfig(appConfig *config.Config, name string) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(name)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", name)
	}

	return Config{
		Type:         backendType,
		LedgerFile:   appConfig.LedgerFile,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		Google: google.Config{
			SpreadsheetID:      appConfig.GoogleSpreadsheetID,
			SheetName:          appConfig.GoogleSheetName,
			ServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
			ServiceAccountFile: appConfig.GoogleServiceAccountFile,
		},
		S3: s3store.Config{
			Bucket:          appConfig.S3Bucket,
			Key:             appConfig.S3Key,
			Region:          appConfig.S3Region,
			Endpoint:        appConfig.S3Endpoint,
			AccessKeyID:     appConfig.AWSAccessKeyID,
			SecretAccessKey: appConfig.AWSSecretAccessKey,
		},
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case XLSXBackend:
		if c.LedgerFile == "" {
			return fmt.Errorf("ledger file path is required for xlsx backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case SheetsBackend:
		if c.Google.SpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for sheets backend")
		}
		if c.Google.SheetName == "" {
			return fmt.Errorf("Google Sheet name is required for sheets backend")
		}
	case S3Backend:
		if c.S3.Bucket == "" || c.S3.Key == "" {
			return fmt.Errorf("S3 bucket and key are required for s3 backend")
		}
	case MemoryBackend:
	}

	return nil
}
