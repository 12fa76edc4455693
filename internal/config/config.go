package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

// Config holds every setting of the server, read from the environment
type Config struct {
	Env         string `env:"APP_ENV" env-default:"local"`
	CatalogPath string `env:"CATALOG_PATH"` // Optional YAML catalog, built-in catalog when empty
	HTTPServer  HTTPServer
	Database    Database
	JWT         JWT
	Session     Session
	Redis       Redis
	RateLimit   RateLimit
}

// HTTPServer holds listener settings
type HTTPServer struct {
	Address         string        `env:"HTTP_ADDRESS" env-default:"0.0.0.0:5000"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:","`
	TrustedProxies  []string      `env:"TRUSTED_PROXIES" env-separator:","` // Empty means X-Forwarded-For is ignored
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Database holds PostgreSQL connection parameters
type Database struct {
	Host          string        `env:"DB_HOST" env-default:"localhost"`
	Port          string        `env:"DB_PORT" env-default:"5432"`
	User          string        `env:"DB_USER" env-default:"postgres"`
	Password      string        `env:"DB_PASSWORD"`
	Name          string        `env:"DB_NAME" env-default:"kaamsetu"`
	SSLMode       string        `env:"DB_SSLMODE" env-default:"disable"`
	MaxRetries    int           `env:"DB_MAX_RETRIES" env-default:"5"`
	RetryInterval time.Duration `env:"DB_RETRY_INTERVAL" env-default:"5s"`
}

// DSN builds the libpq style connection string
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// JWT holds session token signing settings
type JWT struct {
	Secret string        `env:"JWT_SECRET_KEY" env-required:"true"`
	TTL    time.Duration `env:"JWT_TTL" env-default:"24h"`
}

// Session holds cookie settings
type Session struct {
	CookieName string `env:"SESSION_COOKIE_NAME" env-default:"session"`
	Secure     bool   `env:"SESSION_COOKIE_SECURE" env-default:"false"`
}

// Redis is optional; an empty address disables token revocation on logout
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// RateLimit applies per client IP to login and signup
type RateLimit struct {
	RPS     float64       `env:"RATE_LIMIT_RPS" env-default:"1"`
	Burst   int           `env:"RATE_LIMIT_BURST" env-default:"5"`
	IdleTTL time.Duration `env:"RATE_LIMIT_IDLE_TTL" env-default:"10m"`
}

// Load reads .env (if present) and then the process environment
func Load() (*Config, error) {
	// Missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY must not be empty")
	}
	if cfg.JWT.TTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be positive, got %s", cfg.JWT.TTL)
	}
	return &cfg, nil
}

// LogValue keeps secrets out of the logs
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("env", c.Env),
		slog.String("http_address", c.HTTPServer.Address),
		slog.String("db_host", c.Database.Host),
		slog.String("db_name", c.Database.Name),
		slog.Duration("jwt_ttl", c.JWT.TTL),
		slog.Bool("redis_enabled", c.Redis.Addr != ""),
		slog.String("catalog_path", c.CatalogPath),
	)
}
