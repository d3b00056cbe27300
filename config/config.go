package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds the relational store settings.
// For sqlite3 the DSN is a file path; for postgres it is a connection URL.
type DatabaseConfig struct {
	Driver        string
	DSN           string
	MigrationsDir string
}

// CacheConfig selects the go-utils cache backend used for sessions and response caching
type CacheConfig struct {
	Type          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// AuthConfig holds token and password settings
type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	Issuer         string
	BcryptCost     int
	StrictPassword bool
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	driver, dsn := databaseFromEnv()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Driver:        driver,
			DSN:           dsn,
			MigrationsDir: getEnv("MIGRATIONS_DIR", filepath.Join("database", "migrations", driver)),
		},
		Cache: CacheConfig{
			Type:          getEnv("CACHE_TYPE", "memory"),
			RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getIntEnv("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET_KEY", "super-secret-dev-key"),
			TokenTTL:       getDurationEnv("JWT_EXPIRATION", 24*time.Hour),
			Issuer:         getEnv("JWT_ISSUER", "starwars-api"),
			BcryptCost:     getIntEnv("BCRYPT_COST", 12),
			StrictPassword: getBoolEnv("PASSWORD_POLICY_STRICT", false),
		},
	}, nil
}

// databaseFromEnv resolves driver and DSN. DATABASE_URL wins when set; a
// postgres:// scheme is rewritten to postgresql:// and selects the postgres driver.
func databaseFromEnv() (string, string) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		if strings.HasPrefix(url, "postgres://") {
			url = "postgresql://" + strings.TrimPrefix(url, "postgres://")
		}
		if strings.HasPrefix(url, "postgresql://") {
			return DriverPostgres, url
		}
		return getEnv("DB_DRIVER", DriverSQLite), url
	}
	return getEnv("DB_DRIVER", DriverSQLite), getEnv("DB_PATH", "./starwars.db")
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}

	if c.Database.Driver != DriverSQLite && c.Database.Driver != DriverPostgres {
		errs = append(errs, fmt.Errorf("DB_DRIVER must be '%s' or '%s', got '%s'", DriverSQLite, DriverPostgres, c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("DATABASE_URL or DB_PATH is required"))
	}

	if c.Cache.Type != "memory" && c.Cache.Type != "redis" {
		errs = append(errs, fmt.Errorf("CACHE_TYPE must be 'memory' or 'redis', got '%s'", c.Cache.Type))
	}
	if c.Cache.Type == "redis" && c.Cache.RedisAddr == "" {
		errs = append(errs, errors.New("REDIS_ADDR is required when CACHE_TYPE is redis"))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.IsProduction() && c.Auth.JWTSecret == "super-secret-dev-key" {
		errs = append(errs, errors.New("JWT_SECRET_KEY must be set in production"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION must be positive"))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

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

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
