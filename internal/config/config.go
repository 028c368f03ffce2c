// Package config loads server settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/ledger"
	"github.com/mmynk/tabsplit/pkg/logging"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

var validBackends = []string{BackendMemory, BackendSQLite, BackendPostgres}

type Config struct {
	// HTTP server
	Port       string
	StaticPath string

	// Storage
	StorageBackend string
	DBPath         string
	DatabaseURL    string

	// Ledger
	SettlementMode string
	IDScheme       string
	SeedDemo       bool

	LogLevel string
}

// Load reads .env (if present) and then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:       getEnv("PORT", "8080"),
		StaticPath: getEnv("STATIC_PATH", "./web/static"),

		StorageBackend: getEnv("STORAGE_BACKEND", BackendMemory),
		DBPath:         getEnv("DB_PATH", "./data/tabsplit.db"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		SettlementMode: getEnv("SETTLEMENT_MODE", "allocating"),
		IDScheme:       getEnv("ID_SCHEME", "typeid"),
		SeedDemo:       getEnvBool("SEED_DEMO", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validBackends, c.StorageBackend) {
		errs = append(errs, fmt.Sprintf("invalid storage backend '%s': must be one of %v", c.StorageBackend, validBackends))
	}

	switch c.StorageBackend {
	case BackendSQLite:
		if c.DBPath == "" {
			errs = append(errs, "DB_PATH cannot be empty when using sqlite backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, "DATABASE_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.DatabaseURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid DATABASE_URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errs = append(errs, fmt.Sprintf("invalid DATABASE_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme))
		}
	}

	if _, err := calculator.ParseMode(c.SettlementMode); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := ledger.NewIDGenerator(c.IDScheme); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
