package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port         string `yaml:"port" env:"SERVER_PORT"`
		Mode         string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath  string `yaml:"storage_path" env:"STORAGE_PATH"`
		BaseURL      string `yaml:"base_url" env:"BASE_URL"`
		ClientURL    string `yaml:"client_url" env:"CLIENT_URL"`
		BodyLimitMB  int    `yaml:"body_limit_mb" env:"BODY_LIMIT_MB"`
		CookieDomain string `yaml:"cookie_domain" env:"COOKIE_DOMAIN"`

		// Proxies allowed to set X-Forwarded-For. Empty means the peer address is the client IP.
		TrustedProxies []string `yaml:"trusted_proxies" env:"TRUSTED_PROXIES"`
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
	} `yaml:"database"`

	Redis struct {
		Addr           string `yaml:"addr" env:"REDIS_ADDR"`
		Password       string `yaml:"password" env:"REDIS_PASSWORD"`
		DB             int    `yaml:"db" env:"REDIS_DB"`
		CourseCacheTTL string `yaml:"course_cache_ttl" env:"REDIS_COURSE_CACHE_TTL"`
	} `yaml:"redis"`

	JWT struct {
		AccessSecret           string `yaml:"access_secret" env:"ACCESS_TOKEN"`
		RefreshSecret          string `yaml:"refresh_secret" env:"REFRESH_TOKEN"`
		ActivationSecret       string `yaml:"activation_secret" env:"ACTIVATION_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"ACCESS_TOKEN_EXPIRE"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"REFRESH_TOKEN_EXPIRE"`
		ActivationExpiration   string `yaml:"activation_expiration" env:"ACTIVATION_TOKEN_EXPIRE"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_MAIL"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
	} `yaml:"smtp"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS"`
		Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
	} `yaml:"rate_limit"`

	Seed struct {
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`

	Jobs struct {
		NotificationCleanupSchedule string `yaml:"notification_cleanup_schedule" env:"NOTIFICATION_CLEANUP_SCHEDULE"`
		NotificationRetention       string `yaml:"notification_retention" env:"NOTIFICATION_RETENTION"`
	} `yaml:"jobs"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// .env is optional; real environment variables always win over it
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
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
	// Server defaults
	config.Server.Port = "8000"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.ClientURL = "http://localhost:3000"
	config.Server.BodyLimitMB = 50

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "learnhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// Redis defaults
	config.Redis.Addr = "localhost:6379"
	config.Redis.CourseCacheTTL = "168h"

	// JWT defaults
	config.JWT.AccessTokenExpiration = "5m"
	config.JWT.RefreshTokenExpiration = "168h"
	config.JWT.ActivationExpiration = "5m"
	config.JWT.Issuer = "learnhub"

	// SMTP defaults
	config.SMTP.Port = 587
	config.SMTP.FromName = "LMS Support"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.RateLimit.RequestsPerSecond = 5
	config.RateLimit.Burst = 10

	config.Seed.AdminName = "Admin"

	config.Jobs.NotificationCleanupSchedule = "0 0 * * *"
	config.Jobs.NotificationRetention = "720h"
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

	if config.JWT.AccessSecret == "" {
		return fmt.Errorf("access token secret is required")
	}
	if config.JWT.RefreshSecret == "" {
		return fmt.Errorf("refresh token secret is required")
	}
	if config.JWT.ActivationSecret == "" {
		return fmt.Errorf("activation secret is required")
	}

	durations := map[string]string{
		"JWT access token expiration":  config.JWT.AccessTokenExpiration,
		"JWT refresh token expiration": config.JWT.RefreshTokenExpiration,
		"JWT activation expiration":    config.JWT.ActivationExpiration,
		"redis course cache ttl":       config.Redis.CourseCacheTTL,
		"notification retention":       config.Jobs.NotificationRetention,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
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
