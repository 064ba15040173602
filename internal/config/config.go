package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by DATA_BACKEND and MIRROR_BACKEND.
const (
	BackendXLSX   = "xlsx"
	BackendMemory = "memory"
	BackendSheets = "sheets"
	BackendS3     = "s3"
	BackendSQLite = "sqlite"
)

// Backends lists every supported storage backend.
var Backends = []string{BackendXLSX, BackendMemory, BackendSheets, BackendS3, BackendSQLite}

type Config struct {
	// HTTP Server
	Port               string
	ShutdownTimeout    time.Duration
	RateLimitPerMinute int

	// Logging
	LogLevel string

	// Backend selection. A zero MirrorInterval disables periodic resync.
	DataBackend    string
	MirrorBackend  string
	MirrorInterval time.Duration

	// Workbook file
	LedgerFile string

	// Database
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// S3
	S3Bucket           string
	S3Key              string
	S3Region           string
	S3Endpoint         string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8081"),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend:    strings.ToLower(getEnv("DATA_BACKEND", BackendXLSX)),
		MirrorBackend:  strings.ToLower(getEnv("MIRROR_BACKEND", "")),
		MirrorInterval: getEnvDuration("MIRROR_INTERVAL", 0),

		LedgerFile:   getEnv("LEDGER_FILE", "financas.xlsx"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/financas.db"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Financas"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Key:              getEnv("S3_KEY", "financas.xlsx"),
		S3Region:           getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "financas"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_changed"),
	}
}

// EventsEnabled reports whether ledger change events are published.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}
	if c.MirrorInterval < 0 {
		errors = append(errors, fmt.Sprintf("invalid mirror interval %v: must not be negative", c.MirrorInterval))
	}
	if c.ShutdownTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be at least 1 second", c.ShutdownTimeout))
	}

	errors = append(errors, c.validateBackend("data", c.DataBackend)...)
	if c.MirrorBackend != "" {
		if c.MirrorBackend == c.DataBackend {
			errors = append(errors, fmt.Sprintf("mirror backend '%s' must differ from the data backend", c.MirrorBackend))
		} else {
			errors = append(errors, c.validateBackend("mirror", c.MirrorBackend)...)
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func (c *Config) validateBackend(role, name string) []string {
	if !slices.Contains(Backends, name) {
		return []string{fmt.Sprintf("invalid %s backend '%s': must be one of %v", role, name, Backends)}
	}

	var errors []string
	switch name {
	case BackendXLSX:
		if c.LedgerFile == "" {
			errors = append(errors, "ledger file path cannot be empty when using xlsx backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case BackendSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets backend")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	case BackendS3:
		if c.S3Bucket == "" {
			errors = append(errors, "S3 bucket is required when using s3 backend")
		}
		if c.S3Key == "" {
			errors = append(errors, "S3 object key is required when using s3 backend")
		}
		if c.S3Endpoint != "" {
			if u, err := url.Parse(c.S3Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
				errors = append(errors, fmt.Sprintf("invalid S3 endpoint '%s': must be an absolute URL", c.S3Endpoint))
			}
		}
		if (c.AWSAccessKeyID == "") != (c.AWSSecretAccessKey == "") {
			errors = append(errors, "AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set together")
		}
	}
	return errors
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
