package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string   `yaml:"port" env:"SERVER_PORT"`
		Mode            string   `yaml:"mode" env:"SERVER_MODE"`
		AllowedOrigins  []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
		ShutdownTimeout string   `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
		UseTLS    bool   `yaml:"use_tls" env:"SMTP_USE_TLS"`
		MaxTries  int    `yaml:"max_tries" env:"SMTP_MAX_TRIES"`
	} `yaml:"smtp"`

	RateLimit struct {
		// Backend is "memory" or "redis"
		Backend        string `yaml:"backend" env:"RATE_LIMIT_BACKEND"`
		RedisAddr      string `yaml:"redis_addr" env:"REDIS_ADDR"`
		RedisPassword  string `yaml:"redis_password" env:"REDIS_PASSWORD"`
		RedisDB        int    `yaml:"redis_db" env:"REDIS_DB"`
		RedisPrefix    string `yaml:"redis_prefix" env:"REDIS_PREFIX"`
		LoginMax       int    `yaml:"login_max" env:"RATE_LIMIT_LOGIN_MAX"`
		LoginWindow    string `yaml:"login_window" env:"RATE_LIMIT_LOGIN_WINDOW"`
		RegisterMax    int    `yaml:"register_max" env:"RATE_LIMIT_REGISTER_MAX"`
		RegisterWindow string `yaml:"register_window" env:"RATE_LIMIT_REGISTER_WINDOW"`
	} `yaml:"rate_limit"`

	App struct {
		SiteName string `yaml:"site_name" env:"APP_SITE_NAME"`
		SiteURL  string `yaml:"site_url" env:"APP_SITE_URL"`
		Timezone string `yaml:"timezone" env:"APP_TIMEZONE"`
		Locale   string `yaml:"locale" env:"APP_LOCALE"`
	} `yaml:"app"`

	Seed struct {
		Enabled        bool     `yaml:"enabled" env:"SEED_ENABLED"`
		AdminEmail     string   `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword  string   `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		AdminFirstName string   `yaml:"admin_first_name" env:"SEED_ADMIN_FIRST_NAME"`
		AdminLastName  string   `yaml:"admin_last_name" env:"SEED_ADMIN_LAST_NAME"`
		Categories     []string `yaml:"categories"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables.
// Precedence, lowest first: defaults, YAML file, environment (including .env).
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.AllowedOrigins = []string{"http://localhost:3000"}
	config.Server.ShutdownTimeout = "10s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "kasta"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.JWT.AccessTokenExpiration = "12h"
	config.JWT.Issuer = "kasta-crossfit"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.SMTP.Port = 587
	config.SMTP.FromName = "Kasta CrossFit"
	config.SMTP.MaxTries = 3

	config.RateLimit.Backend = "memory"
	config.RateLimit.RedisAddr = "localhost:6379"
	config.RateLimit.RedisPrefix = "kasta:ratelimit"
	config.RateLimit.LoginMax = 5
	config.RateLimit.LoginWindow = "5m"
	config.RateLimit.RegisterMax = 3
	config.RateLimit.RegisterWindow = "10m"

	config.App.SiteName = "Kasta CrossFit"
	config.App.SiteURL = "http://localhost:3000"
	config.App.Timezone = "Europe/Paris"
	config.App.Locale = "fr_FR"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	for name, window := range map[string]string{
		"login":    config.RateLimit.LoginWindow,
		"register": config.RateLimit.RegisterWindow,
	} {
		if _, err := time.ParseDuration(window); err != nil {
			return fmt.Errorf("invalid %s rate limit window: %w", name, err)
		}
	}

	switch strings.ToLower(config.RateLimit.Backend) {
	case "memory":
	case "redis":
		if config.RateLimit.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the redis rate limit backend")
		}
	default:
		return fmt.Errorf("unknown rate limit backend %q", config.RateLimit.Backend)
	}

	if _, err := time.LoadLocation(config.App.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	if config.Seed.Enabled && (config.Seed.AdminEmail == "" || config.Seed.AdminPassword == "") {
		return fmt.Errorf("seed admin email and password are required when seeding is enabled")
	}

	return nil
}

// Location returns the association time zone. validateConfig guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
