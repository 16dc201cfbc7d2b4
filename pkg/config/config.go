package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/dedupkit/dedup-engine/pkg/dedup"
)

// Config holds all configuration for dedup-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (the database password) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Upload limits. The original deployments accept workbooks up to 200MB.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES" env-default:"209715200"`

	// RequestTimeoutSeconds bounds one clean request wall-clock; the engine
	// itself has no cancellation points, so the bound lives at the server.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds" env:"REQUEST_TIMEOUT_SECONDS" env-default:"120"`

	// ResultTTLMinutes is how long cleaned files stay downloadable in memory.
	ResultTTLMinutes int `yaml:"result_ttl_minutes" env:"RESULT_TTL_MINUTES" env-default:"60"`

	// Column discovery candidate lists, highest priority first. These are
	// the only engine tunables; empty lists fall back to the defaults.
	Dedup DedupConfig `yaml:"dedup"`

	// Database configuration (PostgreSQL, optional run history)
	Database DatabaseConfig `yaml:"database"`
}

// DedupConfig holds the candidate-pattern lists for column discovery.
type DedupConfig struct {
	IdentifierPatterns []string `yaml:"identifier_patterns" env:"DEDUP_IDENTIFIER_PATTERNS" env-separator:","`
	DatePatterns       []string `yaml:"date_patterns" env:"DEDUP_DATE_PATTERNS" env-separator:","`
}

// Options converts the configured lists to engine options, falling back to
// the built-in defaults for any list left empty.
func (d DedupConfig) Options() dedup.Options {
	opts := dedup.DefaultOptions()
	if len(d.IdentifierPatterns) > 0 {
		opts.IdentifierPatterns = d.IdentifierPatterns
	}
	if len(d.DatePatterns) > 0 {
		opts.DatePatterns = d.DatePatterns
	}
	return opts
}

// DatabaseConfig holds PostgreSQL configuration for the run-history store.
// The store is optional: with Enabled false the service runs purely in
// memory and no database is contacted.
type DatabaseConfig struct {
	Enabled        bool   `yaml:"enabled" env:"DB_ENABLED" env-default:"false"`
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"dedup"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"dedup_engine"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RequestTimeout returns the per-request wall-clock budget.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// ResultTTL returns how long cleaned results are retained for download.
func (c *Config) ResultTTL() time.Duration {
	return time.Duration(c.ResultTTLMinutes) * time.Minute
}

// Load reads configuration from config.yaml with environment variable
// overrides. A missing config.yaml is not an error; the environment and
// defaults are used instead. The version parameter is injected at build time
// and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	err := cleanenv.ReadConfig("config.yaml", cfg)
	if errors.Is(err, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max_upload_bytes must be positive, got %d", cfg.MaxUploadBytes)
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("request_timeout_seconds must be positive, got %d", cfg.RequestTimeoutSeconds)
	}

	return cfg, nil
}
