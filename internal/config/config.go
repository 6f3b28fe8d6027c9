// Package config loads the roster settings from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Database   DatabaseConfig
	StorageKey string
	Server     ServerConfig
	Logging    LoggingConfig
	Import     ImportConfig
}

type DatabaseConfig struct {
	// Driver is one of sqlite, postgres or memory (default: sqlite)
	Driver string
	// Path is the sqlite database file (default: roster.db)
	Path string

	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

type ServerConfig struct {
	// Addr is the listen address (default: :8080)
	Addr string
	// AllowedOrigins feeds the CORS handler (default: http://localhost:3000)
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ImportConfig struct {
	// MaxBytes caps the multipart body of a CSV import (default: 10MB)
	MaxBytes int64
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return "host=" + d.Host + " user=" + d.User + " password=" + d.Password + " dbname=" + d.Name + " port=" + d.Port + " sslmode=disable"
}

// Load reads a .env file if there is one, then the environment, applies
// defaults and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver:   strings.ToLower(getenv("ROSTER_DB_DRIVER", DriverSQLite)),
			Path:     getenv("ROSTER_DB_PATH", "roster.db"),
			Host:     getenv("DB_HOST", "localhost"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getenv("DB_NAME", "studentdb"),
			Port:     getenv("DB_PORT", "5432"),
		},
		StorageKey: getenv("ROSTER_STORAGE_KEY", "students"),
		Server: ServerConfig{
			Addr:           getenv("SERVER_ADDR", ":8080"),
			AllowedOrigins: splitList(getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
		},
	}

	maxBytes := getenv("IMPORT_MAX_BYTES", "10485760")
	n, err := strconv.ParseInt(maxBytes, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("config load: invalid value for IMPORT_MAX_BYTES=%q: %w", maxBytes, err)
	}
	cfg.Import.MaxBytes = n

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, "ROSTER_DB_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Database.User == "" {
			errs = append(errs, "DB_USER is required for the postgres driver")
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Sprintf("ROSTER_DB_DRIVER must be one of sqlite, postgres, memory (got %q)", c.Database.Driver))
	}

	if strings.TrimSpace(c.StorageKey) == "" {
		errs = append(errs, "ROSTER_STORAGE_KEY must not be empty")
	}
	if c.Server.Addr == "" {
		errs = append(errs, "SERVER_ADDR must not be empty")
	}
	if c.Import.MaxBytes <= 0 {
		errs = append(errs, fmt.Sprintf("IMPORT_MAX_BYTES must be positive (got %d)", c.Import.MaxBytes))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
