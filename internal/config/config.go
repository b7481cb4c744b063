package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables,
// optionally overlaid by the YAML file named in CONFIG_FILE.
// Every field has a sensible default; only DATABASE_URL is required.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL    string
	DBMaxConns     int32
	DBMinConns     int32
	MigrationsPath string

	// Upstream retention API
	UpstreamBaseURL string
	UpstreamToken   string
	UpstreamTimeout time.Duration

	// Action delivery
	ActionWorkers int
	MaxRetries    int

	// Rate limiting: maximum upstream action calls per second
	RateLimit int

	// Retry backoff durations: index 0 = first retry delay, etc.
	RetryBackoff []time.Duration

	// Background worker poll intervals
	SyncInterval  time.Duration
	RetryInterval time.Duration

	// Notifications
	NotificationDismissAfter time.Duration

	// Work queue derivation
	HighValueThreshold float64
	StaleAfter         time.Duration
	Currency           string
	Locale             string
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL:    dbURL,
		DBMaxConns:     int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:     int32(getInt("DB_MIN_CONNS", 5)),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),

		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", "http://localhost:9000/api"),
		UpstreamToken:   os.Getenv("UPSTREAM_TOKEN"),
		UpstreamTimeout: getDuration("UPSTREAM_TIMEOUT", 10*time.Second),

		ActionWorkers: getInt("ACTION_WORKERS", 4),
		MaxRetries:    getInt("ACTION_MAX_RETRIES", 3),

		RateLimit: getInt("UPSTREAM_RATE_LIMIT", 20),

		RetryBackoff: []time.Duration{
			getDuration("RETRY_BACKOFF_1", 5*time.Second),
			getDuration("RETRY_BACKOFF_2", 30*time.Second),
			getDuration("RETRY_BACKOFF_3", 120*time.Second),
		},

		SyncInterval:  getDuration("SYNC_INTERVAL", 30*time.Second),
		RetryInterval: getDuration("RETRY_INTERVAL", 10*time.Second),

		NotificationDismissAfter: getDuration("NOTIFICATION_DISMISS_AFTER", 3*time.Second),

		HighValueThreshold: getFloat("HIGH_VALUE_THRESHOLD", 100),
		StaleAfter:         getDuration("STALE_AFTER", 60*time.Minute),
		Currency:           getEnv("DISPLAY_CURRENCY", "USD"),
		Locale:             getEnv("DISPLAY_LOCALE", "en-US"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the workers cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.ActionWorkers < 1:
		return fmt.Errorf("ACTION_WORKERS must be at least 1")
	case c.MaxRetries < 0:
		return fmt.Errorf("ACTION_MAX_RETRIES must not be negative")
	case c.RateLimit < 1:
		return fmt.Errorf("UPSTREAM_RATE_LIMIT must be at least 1")
	case len(c.RetryBackoff) == 0:
		return fmt.Errorf("at least one retry backoff is required")
	case c.SyncInterval <= 0 || c.RetryInterval <= 0:
		return fmt.Errorf("poll intervals must be positive")
	case c.StaleAfter <= 0:
		return fmt.Errorf("STALE_AFTER must be positive")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
