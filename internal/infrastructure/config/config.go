// Package config loads service settings from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Host            string        `env:"HOST,             default=0.0.0.0"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	PasswordScheme  string        `env:"PASSWORD_SCHEME,  default=plain"`
	AuditWorkers    int           `env:"AUDIT_WORKERS,    default=4"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Database DatabaseConfig
	Redis    RedisConfig
}

type DatabaseConfig struct {
	URL             string        `env:"DATABASE_URL, required"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,    default=10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,    default=5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=30m"`
	QueryTimeout    time.Duration `env:"DB_QUERY_TIMEOUT,     default=5s"`
	Migrate         bool          `env:"DB_MIGRATE,           default=true"`
}

// RedisConfig is optional: an empty Addr disables send idempotency.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings that parse but cannot be used.
func (c *Config) Validate() error {
	switch c.PasswordScheme {
	case "plain", "bcrypt":
	default:
		return fmt.Errorf("config: unknown PASSWORD_SCHEME %q", c.PasswordScheme)
	}
	if c.AuditWorkers <= 0 {
		return fmt.Errorf("config: AUDIT_WORKERS must be positive, got %d", c.AuditWorkers)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// IdempotencyEnabled reports whether a Redis address was configured.
func (c *Config) IdempotencyEnabled() bool {
	return c.Redis.Addr != ""
}
