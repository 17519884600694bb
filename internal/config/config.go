package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Warehouse drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Warehouse connection
	Warehouse WarehouseConfig

	// Optional bearer-token auth on the API
	JWT JWTConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// Cross-origin access for the dashboard front-end
	CORS CORSConfig

	// Log streaming over websockets
	WebSocket WebSocketConfig

	// Logging configuration
	Logging LoggingConfig

	// Classification thresholds overlay
	Rules RulesConfig

	// Application metadata
	App AppConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// WarehouseConfig selects and tunes the reporting store.
type WarehouseConfig struct {
	Driver          string
	URL             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	QueryTimeout    time.Duration
}

// JWTConfig holds JWT configuration. An empty secret disables auth.
type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

// Enabled reports whether API requests must carry a bearer token.
func (c JWTConfig) Enabled() bool {
	return c.Secret != ""
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	ExportRPS         float64 // Stricter limit for CSV exports
	ExportBurst       int
}

type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int
}

// WebSocketConfig holds WebSocket configuration
type WebSocketConfig struct {
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
	PingInterval    time.Duration
	PongWait        time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	RingSize   int
}

type RulesConfig struct {
	File string
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := FromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FromEnv reads the configuration without loading .env or validating.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", ":8080"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getDurationOrDefault("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Warehouse: WarehouseConfig{
			Driver:          strings.ToLower(getEnvOrDefault("WAREHOUSE_DRIVER", DriverPostgres)),
			URL:             os.Getenv("DATABASE_URL"),
			SQLitePath:      getEnvOrDefault("SQLITE_PATH", "data/warehouse.db"),
			MaxOpenConns:    getIntOrDefault("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getIntOrDefault("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getDurationOrDefault("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnMaxIdleTime: getDurationOrDefault("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			QueryTimeout:    getDurationOrDefault("WAREHOUSE_QUERY_TIMEOUT", 30*time.Second),
		},
		JWT: JWTConfig{
			Secret:         os.Getenv("JWT_SECRET"),
			AccessTokenTTL: getDurationOrDefault("JWT_ACCESS_TOKEN_TTL", 24*time.Hour),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getBoolOrDefault("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getFloatOrDefault("RATE_LIMIT_RPS", 10),
			BurstSize:         getIntOrDefault("RATE_LIMIT_BURST", 20),
			ExportRPS:         getFloatOrDefault("RATE_LIMIT_EXPORT_RPS", 1),
			ExportBurst:       getIntOrDefault("RATE_LIMIT_EXPORT_BURST", 3),
		},
		CORS: CORSConfig{
			AllowedOrigins: getStringSliceOrDefault("CORS_ALLOWED_ORIGINS", []string{"*"}),
			MaxAge:         getIntOrDefault("CORS_MAX_AGE", 300),
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins:  getStringSliceOrDefault("WS_ALLOWED_ORIGINS", []string{}),
			ReadBufferSize:  getIntOrDefault("WS_READ_BUFFER_SIZE", 1024),
			WriteBufferSize: getIntOrDefault("WS_WRITE_BUFFER_SIZE", 1024),
			PingInterval:    getDurationOrDefault("WS_PING_INTERVAL", 54*time.Second),
			PongWait:        getDurationOrDefault("WS_PONG_WAIT", 60*time.Second),
		},
		Logging: LoggingConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
			File:       os.Getenv("LOG_FILE"),
			MaxSizeMB:  getIntOrDefault("LOG_MAX_SIZE_MB", 10),
			MaxBackups: getIntOrDefault("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getIntOrDefault("LOG_MAX_AGE_DAYS", 28),
			RingSize:   getIntOrDefault("LOG_RING_SIZE", 100),
		},
		Rules: RulesConfig{
			File: os.Getenv("RULES_FILE"),
		},
		App: AppConfig{
			Name:        getEnvOrDefault("APP_NAME", "project-reports"),
			Version:     getEnvOrDefault("APP_VERSION", "dev"),
			Environment: getEnvOrDefault("APP_ENV", "development"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []string

	// Required fields
	switch c.Warehouse.Driver {
	case DriverPostgres:
		if c.Warehouse.URL == "" {
			errs = append(errs, "DATABASE_URL is required for the postgres warehouse")
		}
	case DriverSQLite:
		if c.Warehouse.SQLitePath == "" {
			errs = append(errs, "SQLITE_PATH is required for the sqlite warehouse")
		}
	default:
		errs = append(errs, fmt.Sprintf("WAREHOUSE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Warehouse.Driver))
	}

	// Security validations
	if c.App.Environment == "production" {
		if c.JWT.Enabled() && len(c.JWT.Secret) < 32 {
			errs = append(errs, "JWT_SECRET must be at least 32 characters in production")
		}

		if len(c.WebSocket.AllowedOrigins) == 0 {
			errs = append(errs, "WS_ALLOWED_ORIGINS must be set in production")
		}
	}

	// Logical validations
	if c.Warehouse.MaxIdleConns > c.Warehouse.MaxOpenConns {
		errs = append(errs, "DB_MAX_IDLE_CONNS cannot be greater than DB_MAX_OPEN_CONNS")
	}
	if c.Logging.RingSize <= 0 {
		errs = append(errs, "LOG_RING_SIZE must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		errs = append(errs, "RATE_LIMIT_RPS must be positive when rate limiting is enabled")
	}

	if len(errs) > 0 {
		return errors.New("configuration errors:\n  - " + strings.Join(errs, "\n  - "))
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}

// String returns a redacted string representation of the config (safe for logging)
func (c *Config) String() string {
	jwt := "disabled"
	if c.JWT.Enabled() {
		jwt = "[REDACTED]"
	}
	return fmt.Sprintf(
		"Config{Server: %s, Warehouse: %s %s, JWT: %s, RateLimit: %v, Environment: %s}",
		c.Server.Port,
		c.Warehouse.Driver,
		c.warehouseTarget(),
		jwt,
		c.RateLimit.Enabled,
		c.App.Environment,
	)
}

func (c *Config) warehouseTarget() string {
	if c.Warehouse.Driver == DriverSQLite {
		return c.Warehouse.SQLitePath
	}
	return redactURL(c.Warehouse.URL)
}

// redactURL redacts sensitive parts of a database URL
func redactURL(url string) string {
	if url == "" {
		return ""
	}
	if idx := strings.Index(url, "@"); idx > 0 {
		return "[REDACTED]" + url[idx:]
	}
	return "[REDACTED]"
}
