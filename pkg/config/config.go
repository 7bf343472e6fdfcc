package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers understood by the composition root.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultUserID is the single local user when STUDYFLOW_USER_ID is unset.
const DefaultUserID = "00000000-0000-0000-0000-000000000001"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv   string
	LogLevel string
	UserID   string

	// Database
	DatabaseURL    string
	DatabaseDriver string
	SQLitePath     string

	// Redis settings cache; disabled when RedisURL is empty.
	RedisURL         string
	SettingsCacheTTL time.Duration

	// RabbitMQ; the in-process bus is used when RabbitMQURL is empty.
	RabbitMQURL          string
	PublisherMaxFailures int
	PublisherOpenTimeout time.Duration

	// MCP
	MCPAddr      string
	MCPAuthToken string
	MetricsAddr  string

	// Suggestions
	SuggestHorizonDays int
	SuggestSlotMinutes int
	SuggestMaxResults  int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	databaseURL := getEnv("DATABASE_URL", "")

	cfg := &Config{
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		UserID:   getEnv("STUDYFLOW_USER_ID", DefaultUserID),

		DatabaseURL:    databaseURL,
		DatabaseDriver: getEnv("DATABASE_DRIVER", detectDriver(databaseURL)),
		SQLitePath:     getEnv("SQLITE_PATH", defaultSQLitePath()),

		RedisURL:         getEnv("REDIS_URL", ""),
		SettingsCacheTTL: getDurationEnv("SETTINGS_CACHE_TTL", 10*time.Minute),

		RabbitMQURL:          getEnv("RABBITMQ_URL", ""),
		PublisherMaxFailures: getIntEnv("PUBLISHER_MAX_FAILURES", 5),
		PublisherOpenTimeout: getDurationEnv("PUBLISHER_OPEN_TIMEOUT", 30*time.Second),

		MCPAddr:      getEnv("MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),
		MetricsAddr:  getEnv("METRICS_ADDR", "127.0.0.1:9090"),

		SuggestHorizonDays: getIntEnv("SUGGEST_HORIZON_DAYS", 7),
		SuggestSlotMinutes: getIntEnv("SUGGEST_SLOT_MINUTES", 30),
		SuggestMaxResults:  getIntEnv("SUGGEST_MAX_RESULTS", 5),
	}

	// A DATABASE_URL naming a .db file selects that file for SQLite.
	if cfg.DatabaseDriver == DriverSQLite && strings.HasSuffix(databaseURL, ".db") {
		cfg.SQLitePath = strings.TrimPrefix(databaseURL, "sqlite://")
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsSQLite reports whether the SQLite store is selected.
func (c *Config) IsSQLite() bool {
	return c.DatabaseDriver == DriverSQLite
}

func detectDriver(databaseURL string) string {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

func defaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "studyflow.db"
	}
	return filepath.Join(home, ".studyflow", "studyflow.db")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
