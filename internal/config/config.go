// Package config provides centralized configuration management for the question bank.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig
	Import  ImportConfig
	Data    DataConfig
	Export  ExportConfig
	Rate    RateLimitConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies are CIDRs whose X-Real-IP / X-Forwarded-For headers are honored
	TrustedProxies []string `env:"SERVER_TRUSTED_PROXIES"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// MaxFileSize is the maximum accepted file size in bytes (default: 32MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" default:"33554432"`

	// MaxConcurrent is the maximum number of files read in parallel (default: 4)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long an upload waits for a read slot (default: 30s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration for a single import (default: 2m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"2m"`
}

// DataConfig locates the files the session is seeded from.
type DataConfig struct {
	// Dir holds master data: templates, keywords, domains, species, config (default: ./data)
	Dir string `env:"DATA_DIR" default:"./data"`

	// Watch reloads master data when files in Dir change (default: true)
	Watch bool `env:"DATA_WATCH" default:"true"`

	// SeedFiles are question CSVs merged at start-up, in the listed order
	SeedFiles []string `env:"DATA_SEED_FILES"`

	// HistoryFile is an optional exam history CSV
	HistoryFile string `env:"DATA_HISTORY_FILE"`
}

// ExportConfig names the files offered for download.
type ExportConfig struct {
	// NewFileName is the attachment name of newly authored records (default: new.csv)
	NewFileName string `env:"EXPORT_NEW_FILENAME" default:"new.csv"`

	// UpdatedFileName is the attachment name of the whole store (default: new_update.csv)
	UpdatedFileName string `env:"EXPORT_UPDATED_FILENAME" default:"new_update.csv"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: false)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"false"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
