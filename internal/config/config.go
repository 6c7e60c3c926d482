package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"lampreasvioleta.com/storefront/internal/database"
)

// Config holds all configuration values
type Config struct {
	Addr         string        `yaml:"addr"`
	DBDriver     string        `yaml:"db_driver"`
	DBPath       string        `yaml:"db_path"`
	DatabaseURL  string        `yaml:"database_url"`
	AdminAPIKey  string        `yaml:"admin_api_key"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	LogLevel     string        `yaml:"log_level"`
	LogFormat    string        `yaml:"log_format"`

	DBPathSource string // where DBPath was set from: "default", "yaml file", or "env var"
	DemoMode     bool   // load sample data on new database (set via -demo flag)
}

// envOverrides are the environment variables that take precedence over the
// YAML file. Empty values leave the loaded setting alone.
type envOverrides struct {
	Port        string `env:"PORT"`
	DBDriver    string `env:"DB_DRIVER"`
	DBPath      string `env:"DB_PATH"`
	DatabaseURL string `env:"DATABASE_URL"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`
	LogLevel    string `env:"LOG_LEVEL"`
	LogFormat   string `env:"LOG_FORMAT"`
}

var ErrDatabaseURLRequired = errors.New("database_url is required for the pgx driver")

// Load loads configuration from YAML file and overrides with env vars if present
func Load(path string) (*Config, error) {
	// Defaults
	cfg := &Config{
		Addr:         ":8080",
		DBDriver:     database.DriverSQLite,
		DBPath:       "./storefront.db",
		DBPathSource: "default",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		LogLevel:     "info",
		LogFormat:    "text",
	}

	// Load from YAML if file exists
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		prevDBPath := cfg.DBPath
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if cfg.DBPath != prevDBPath {
			cfg.DBPathSource = "yaml file"
		}
	}

	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if ov.Port != "" {
		cfg.Addr = ":" + ov.Port
	}
	if ov.DBDriver != "" {
		cfg.DBDriver = ov.DBDriver
	}
	if ov.DBPath != "" {
		cfg.DBPath = ov.DBPath
		cfg.DBPathSource = "env var"
	}
	if ov.DatabaseURL != "" {
		cfg.DatabaseURL = ov.DatabaseURL
	}
	if ov.AdminAPIKey != "" {
		cfg.AdminAPIKey = ov.AdminAPIKey
	}
	if ov.LogLevel != "" {
		cfg.LogLevel = ov.LogLevel
	}
	if ov.LogFormat != "" {
		cfg.LogFormat = ov.LogFormat
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case database.DriverSQLite:
		return nil
	case database.DriverPostgres:
		if c.DatabaseURL == "" {
			return ErrDatabaseURLRequired
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", database.ErrUnsupportedDriver, c.DBDriver)
	}
}

// DSN is the data source handed to database.Open for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == database.DriverPostgres {
		return c.DatabaseURL
	}
	return c.DBPath
}
