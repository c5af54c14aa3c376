// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RedisAddr points at the primary document store. Empty disables the
	// remote backend and the service runs on the local fallback only.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// SQLitePath locates the local fallback store.
	SQLitePath string `koanf:"sqlite_path"`

	// RefreshIntervalMinutes controls how often listings are re-loaded
	// from the repository when no push subscription is available.
	RefreshIntervalMinutes int `koanf:"refresh_interval_minutes"`

	// DedupeSize bounds the per-user seen-message-id cache.
	DedupeSize int `koanf:"dedupe_size"`

	// DefaultPageSize and MaxPageSize bound listing pagination.
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`

	// MessageQueueSize bounds the ingest queue; WorkerCount sizes the
	// pool draining it. Zero workers defaults to a CPU-based count.
	MessageQueueSize int `koanf:"message_queue_size"`
	WorkerCount      int `koanf:"worker_count"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9090",
		RedisAddr:              "localhost:6379",
		RedisDB:                0,
		SQLitePath:             "talentsync.db",
		RefreshIntervalMinutes: 5,
		DedupeSize:             50_000,
		DefaultPageSize:        10,
		MaxPageSize:            100,
		MessageQueueSize:       10_000,
	}
}
