package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string  `yaml:"port" env:"SERVER_PORT"`
		Mode            string  `yaml:"mode" env:"SERVER_MODE"`
		RateLimitPerSec float64 `yaml:"rate_limit_per_sec" env:"SERVER_RATE_LIMIT_PER_SEC"`
		RateLimitBurst  int     `yaml:"rate_limit_burst" env:"SERVER_RATE_LIMIT_BURST"`
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

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Sweeper struct {
		// Interval is the minimum time between two overdue-fee sweeps.
		Interval string `yaml:"interval" env:"SWEEPER_INTERVAL"`
	} `yaml:"sweeper"`

	Dashboard struct {
		// CacheTTL bounds how stale a cached stats snapshot may be.
		CacheTTL string `yaml:"cache_ttl" env:"DASHBOARD_CACHE_TTL"`
	} `yaml:"dashboard"`

	SMTP struct {
		Host      string `yaml:"host" env:"SMTP_HOST"`
		Port      int    `yaml:"port" env:"SMTP_PORT"`
		Username  string `yaml:"username" env:"SMTP_USERNAME"`
		Password  string `yaml:"password" env:"SMTP_PASSWORD"`
		FromName  string `yaml:"from_name" env:"SMTP_FROM_NAME"`
		FromEmail string `yaml:"from_email" env:"SMTP_FROM_EMAIL"`
	} `yaml:"smtp"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// Config file is optional; env vars alone are enough for containers
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		err = yaml.Unmarshal(file, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := processStructFields(config); err != nil {
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
	config.Server.RateLimitPerSec = 20
	config.Server.RateLimitBurst = 40

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "hostelhub"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "hostelhub.app"

	config.Sweeper.Interval = "1h"
	config.Dashboard.CacheTTL = "5s"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return fmt.Errorf("server port must be numeric: %w", err)
	}
	if config.JWT.Secret == "" && config.Server.Mode != "development" {
		return fmt.Errorf("jwt secret must be set outside development mode")
	}
	for _, d := range []struct {
		name  string
		value string
	}{
		{"database.conn_max_lifetime", config.Database.ConnMaxLifetime},
		{"jwt.access_token_expiration", config.JWT.AccessTokenExpiration},
		{"jwt.refresh_token_expiration", config.JWT.RefreshTokenExpiration},
		{"sweeper.interval", config.Sweeper.Interval},
		{"dashboard.cache_ttl", config.Dashboard.CacheTTL},
	} {
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("%s is not a valid duration: %w", d.name, err)
		}
	}
	return nil
}

// GetPostgresConnectionString builds the connection string for pgx
func (c *Config) GetPostgresConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User, c.Database.Password, c.Database.Host,
		c.Database.Port, c.Database.DBName, c.Database.SSLMode)
}

// SweeperInterval returns the parsed sweep interval
func (c *Config) SweeperInterval() time.Duration {
	d, err := time.ParseDuration(c.Sweeper.Interval)
	if err != nil {
		return time.Hour
	}
	return d
}

// AccessTokenExpiration returns the parsed access token lifetime
func (c *Config) AccessTokenExpiration() time.Duration {
	d, err := time.ParseDuration(c.JWT.AccessTokenExpiration)
	if err != nil {
		return time.Hour
	}
	return d
}

// RefreshTokenExpiration returns the parsed refresh token lifetime
func (c *Config) RefreshTokenExpiration() time.Duration {
	d, err := time.ParseDuration(c.JWT.RefreshTokenExpiration)
	if err != nil {
		return 720 * time.Hour
	}
	return d
}

// DashboardCacheTTL returns the parsed dashboard snapshot TTL
func (c *Config) DashboardCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Dashboard.CacheTTL)
	if err != nil {
		return 5 * time.Second
	}
	return d
}
