// Package config loads bizdir settings from environment variables.
// Every setting has a default except the database URL, whose absence
// selects in-memory storage. Settings are validated on startup so
// misconfiguration fails fast.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Export   ExportConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"2m"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout bounds the graceful drain of running imports (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty selects in-memory storage.
	// Supports both DATABASE_URL and DB_URL.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Disabled forces in-memory storage even when URL is set.
	Disabled bool `env:"DATABASE_DISABLED" default:"false"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"10"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"1"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// ConnectTimeout bounds the startup connectivity check (default: 5s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"5s"`
}

// Configured reports whether a database should be used.
func (c *DatabaseConfig) Configured() bool {
	return c.URL != "" && !c.Disabled
}

// UploadConfig holds import settings.
type UploadConfig struct {
	// MaxFileSize is the maximum accepted upload in bytes (default: 20MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"20971520"`

	// MaxConcurrent is the maximum number of parallel imports (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for an import slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`

	// Timeout is the maximum duration of a single import (default: 5m)
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" default:"5m"`
}

// RateLimitConfig holds per-IP rate limits.
type RateLimitConfig struct {
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// UploadLimit is the per-minute limit for the import endpoint (default: 10)
	UploadLimit int `env:"RATE_LIMIT_UPLOAD" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// APIKeys are accepted in X-API-Key when PostgreSQL storage is active.
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	// DefaultName is the file name used when an export has no custom name.
	DefaultName string `env:"EXPORT_DEFAULT_NAME" default:"businesses"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
