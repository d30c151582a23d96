package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	File      FileConfig
	MongoDB   MongoDBConfig
	Postgres  PostgresConfig
	Sheets    SheetsConfig
	Scheduler SchedulerConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StoreConfig selects where the ledger is persisted.
type StoreConfig struct {
	Driver string
	// Name identifies the ledger inside shared backends (MongoDB, PostgreSQL).
	Name string
}

// FileConfig holds the JSON file store location.
type FileConfig struct {
	Path string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// PostgresConfig holds settings for PostgreSQL.
type PostgresConfig struct {
	DSN string
}

// SheetsConfig contains configuration required to mirror the ledger to Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
	Tab             string
}

// Enabled reports whether the Google Sheets mirror is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// SchedulerConfig holds cron specs for background jobs.
type SchedulerConfig struct {
	AutosaveCron string
	MirrorCron   string
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Store: StoreConfig{
			Driver: getenvWithDefault("STORE_DRIVER", DriverFile),
			Name:   getenvWithDefault("LEDGER_NAME", "default"),
		},
		File: FileConfig{
			Path: getenvWithDefault("LEDGER_FILE", "ledger.json"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "warehouse"),
		},
		Postgres: PostgresConfig{
			DSN: os.Getenv("POSTGRES_DSN"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_LEDGER_ID"),
			Tab:             getenvWithDefault("GOOGLE_SHEET_TAB", "Ledger"),
		},
		Scheduler: SchedulerConfig{
			AutosaveCron: getenvWithDefault("AUTOSAVE_CRON", "*/5 * * * *"),
			MirrorCron:   getenvWithDefault("MIRROR_CRON", "0 * * * *"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Store.Name == "" {
		return errors.New("LEDGER_NAME must not be empty")
	}

	switch c.Store.Driver {
	case DriverFile:
		if c.File.Path == "" {
			return errors.New("LEDGER_FILE must be provided for the file store")
		}
	case DriverMongoDB:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided for the mongodb store")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN must be provided for the postgres store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.Store.Driver)
	}

	if c.Sheets.Enabled() && c.Sheets.Tab == "" {
		return errors.New("GOOGLE_SHEET_TAB must not be empty")
	}

	if c.Scheduler.AutosaveCron == "" {
		return errors.New("AUTOSAVE_CRON must be provided")
	}

	if c.Sheets.Enabled() && c.Scheduler.MirrorCron == "" {
		return errors.New("MIRROR_CRON must be provided when the sheets mirror is enabled")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
