package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding the config file,
// e.g. REPAIRSHOP_SERVER_PORT or REPAIRSHOP_DATABASE_DSN.
const EnvPrefix = "repairshop"

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool" split_words:"true"`
	Tracking   TrackingConfig   `yaml:"tracking"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port" split_words:"true"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec" split_words:"true"`
	RateLimitBurst  int     `yaml:"rate_limit_burst" split_words:"true"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds" envconfig:"CACHE_TTL_SECONDS"`
}

// CacheTTL returns the GET cache lifetime.
func (s ServerConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres". Empty means: postgres when the DSN
	// looks like a postgres URL, sqlite otherwise.
	Driver                 string `yaml:"driver" split_words:"true"`
	DSN                    string `yaml:"dsn" envconfig:"DSN"`
	MaxOpenConns           int    `yaml:"max_open_conns" split_words:"true"`
	MaxIdleConns           int    `yaml:"max_idle_conns" split_words:"true"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes" split_words:"true"`
	LogSQL                 bool   `yaml:"log_sql" envconfig:"LOG_SQL"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key" envconfig:"VAPID_PUBLIC_KEY"`
	PrivateKey string `yaml:"vapid_private_key" envconfig:"VAPID_PRIVATE_KEY"`
	Subject    string `yaml:"subject" split_words:"true"`
	TTL        int    `yaml:"ttl" envconfig:"TTL"`
}

// Enabled reports whether both VAPID keys are present.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size" split_words:"true"`
}

// TrackingConfig controls what the tracking QR codes point to.
type TrackingConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"BASE_URL"`
	QRSize  int    `yaml:"qr_size" envconfig:"QR_SIZE"`
}

// LogConfig selects the logrus level and formatter.
type LogConfig struct {
	Level  string `yaml:"level" split_words:"true"`
	Format string `yaml:"format" split_words:"true"`
}

// Load reads the configuration from the given path, then applies environment
// overrides and defaults. A missing file is not an error: the service can be
// configured from the environment alone.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case os.IsNotExist(err):
		log.Printf("config file %s not found; using environment and defaults", path)
	default:
		return nil, err
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "./repairshop.db"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverFromDSN(cfg.Database.DSN)
	}
	if cfg.Database.MaxOpenConns <= 0 {
		if cfg.Database.Driver == "sqlite" {
			// one writer; sqlite serialises anyway and this avoids SQLITE_BUSY
			cfg.Database.MaxOpenConns = 1
		} else {
			cfg.Database.MaxOpenConns = 10
		}
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Tracking.QRSize <= 0 {
		cfg.Tracking.QRSize = 256
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// DriverFromDSN guesses the gorm dialect from a connection string.
func DriverFromDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// ConfigureLogger applies the log section to the standard logrus logger.
func (c LogConfig) ConfigureLogger() error {
	level, err := log.ParseLevel(c.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	log.SetLevel(level)

	switch c.Format {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", c.Format)
	}
	return nil
}
