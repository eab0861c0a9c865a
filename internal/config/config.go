package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds all configuration for the application
type Config struct {
	LogLevel       string
	LogFormat      string
	Port           string
	PrometheusPort string
	TelegramToken  string

	StorageDriver string
	StoragePrefix string
	SQLitePath    string
	DatabaseURL   string
	RedisURL      string

	BackupDir        string
	BackupS3Bucket   string
	BackupS3Region   string
	BackupS3Endpoint string
	// BackupInterval is how often the backup scheduler checks whether a
	// backup is due.
	BackupInterval time.Duration

	RateLimit   float64 // requests per second per client
	RateBurst   int
	CORSOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "text"),
		Port:           getEnvOrDefault("PORT", "8080"),
		PrometheusPort: getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),

		StorageDriver: strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", DriverMemory)),
		StoragePrefix: getEnvOrDefault("STORAGE_PREFIX", "planmyevents_"),
		SQLitePath:    getEnvOrDefault("SQLITE_PATH", "planmyevents.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),

		BackupDir:        os.Getenv("BACKUP_DIR"),
		BackupS3Bucket:   os.Getenv("BACKUP_S3_BUCKET"),
		BackupS3Region:   getEnvOrDefault("BACKUP_S3_REGION", "us-east-1"),
		BackupS3Endpoint: os.Getenv("BACKUP_S3_ENDPOINT"),

		CORSOrigins: splitList(getEnvOrDefault("CORS_ORIGINS", "*")),
	}

	var result *multierror.Error
	var err error

	if cfg.BackupInterval, err = time.ParseDuration(getEnvOrDefault("BACKUP_INTERVAL", "1h")); err != nil {
		result = multierror.Append(result, fmt.Errorf("BACKUP_INTERVAL: %w", err))
	}
	if cfg.RateLimit, err = strconv.ParseFloat(getEnvOrDefault("RATE_LIMIT", "10"), 64); err != nil {
		result = multierror.Append(result, fmt.Errorf("RATE_LIMIT: %w", err))
	}
	if cfg.RateBurst, err = strconv.Atoi(getEnvOrDefault("RATE_BURST", "20")); err != nil {
		result = multierror.Append(result, fmt.Errorf("RATE_BURST: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings fit together
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.StorageDriver {
	case DriverMemory, DriverSQLite:
	case DriverPostgres:
		if c.DatabaseURL == "" {
			result = multierror.Append(result, fmt.Errorf("DATABASE_URL environment variable is required for the postgres driver"))
		}
	case DriverRedis:
		if c.RedisURL == "" {
			result = multierror.Append(result, fmt.Errorf("REDIS_URL environment variable is required for the redis driver"))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}

	if c.Port == "" {
		result = multierror.Append(result, fmt.Errorf("PORT must not be empty"))
	}
	if c.BackupInterval < 0 {
		result = multierror.Append(result, fmt.Errorf("BACKUP_INTERVAL must not be negative"))
	}
	if c.RateLimit < 0 || c.RateBurst < 0 {
		result = multierror.Append(result, fmt.Errorf("RATE_LIMIT and RATE_BURST must not be negative"))
	}
	if c.BackupDir != "" && c.BackupS3Bucket != "" {
		result = multierror.Append(result, fmt.Errorf("BACKUP_DIR and BACKUP_S3_BUCKET are mutually exclusive"))
	}

	return result.ErrorOrNil()
}

// BackupEnabled reports whether a backup sink is configured
func (c *Config) BackupEnabled() bool {
	return c.BackupDir != "" || c.BackupS3Bucket != ""
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
