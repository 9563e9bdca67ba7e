package config

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Host     string `env:"HOST,      default=localhost"`
	Port     string `env:"PORT,      default=3000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// AuthRateLimit is the per-IP request rate allowed on /login and /signup.
	// Zero disables limiting.
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT, default=10"`
	// ConnectRetries bounds the startup connection attempts to Mongo and Redis.
	ConnectRetries int `env:"CONNECT_RETRIES, default=3"`

	Session SessionConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Secret       string        `env:"SECRET_KEY, required"`
	TTL          time.Duration `env:"SESSION_TTL,   default=24h"`
	Store        string        `env:"SESSION_STORE, default=memory"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
}

type MongoConfig struct {
	Host     string `env:"DB_HOST,  default=localhost"`
	Port     string `env:"DB_PORT,  default=27017"`
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=mntc"`
}

// ConnectionURI returns MONGO_URI when set, otherwise one built from DB_HOST and DB_PORT.
func (m MongoConfig) ConnectionURI() string {
	if m.URI != "" {
		return m.URI
	}
	return "mongodb://" + net.JoinHostPort(m.Host, m.Port)
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Address is the host:port the HTTP server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDevelopment enables pretty console logging.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate rejects combinations the env tags cannot express.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case SessionStoreMemory, SessionStoreRedis:
	default:
		return fmt.Errorf("config: unknown SESSION_STORE %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}
	if c.AuthRateLimit < 0 {
		return fmt.Errorf("config: AUTH_RATE_LIMIT must not be negative")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration through the given lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
