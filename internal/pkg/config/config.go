package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the gateway configuration.
type Config struct {
	Port       string        `env:"PORT,            default=3000"`
	Env        string        `env:"ENV,             default=development"`
	LogLevel   string        `env:"LOG_LEVEL,       default=info"`
	BackendURL string        `env:"BACKEND_URL,     default=http://localhost:5000"`
	Timeout    time.Duration `env:"BACKEND_TIMEOUT, default=15s"`

	Cookie CookieConfig
	Guard  GuardConfig
	Mongo  MongoConfig
}

type CookieConfig struct {
	Name   string `env:"AUTH_COOKIE_NAME,    default=auth_token"`
	MaxAge int    `env:"AUTH_COOKIE_MAX_AGE, default=86400"`
	Secure bool   `env:"AUTH_COOKIE_SECURE,  default=false"`
}

type GuardConfig struct {
	ProtectedPaths []string `env:"PROTECTED_PATHS, default=/dashboard,/profile,/courses,/learning"`
	AuthPaths      []string `env:"AUTH_PATHS,      default=/login,/register,/forgot-password"`
	LoginPath      string   `env:"LOGIN_PATH,      default=/login"`
	HomePath       string   `env:"HOME_PATH,       default=/dashboard"`
}

// MongoConfig selects the attempt history store. An empty URI keeps history
// in memory.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=examprep"`
}

// ClientConfig is the configuration of the interactive client.
type ClientConfig struct {
	GatewayURL     string `env:"EXAMPREP_GATEWAY_URL,     default=http://localhost:3000"`
	StateDB        string `env:"EXAMPREP_STATE_DB,        default=examprep.db"`
	RedisAddr      string `env:"EXAMPREP_REDIS_ADDR"`
	RedisPassword  string `env:"EXAMPREP_REDIS_PASSWORD"`
	RedisDB        int    `env:"EXAMPREP_REDIS_DB,        default=0"`
	RedisNamespace string `env:"EXAMPREP_REDIS_NAMESPACE, default=default"`
	LogLevel       string `env:"LOG_LEVEL,                default=warn"`
}

// DevBackendConfig is the configuration of the local development backend.
type DevBackendConfig struct {
	Port      string        `env:"PORT,       default=5000"`
	Env       string        `env:"ENV,        default=development"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`
	LogLevel  string        `env:"LOG_LEVEL,  default=info"`
}

// Load reads the gateway configuration from environment variables.
func Load() *Config {
	var cfg Config
	mustProcess(context.Background(), &cfg, envconfig.OsLookuper())
	return &cfg
}

// LoadClient reads the client configuration from environment variables.
func LoadClient() *ClientConfig {
	var cfg ClientConfig
	mustProcess(context.Background(), &cfg, envconfig.OsLookuper())
	return &cfg
}

// LoadDevBackend reads the development backend configuration. A JWT secret is
// mandatory outside the development environment.
func LoadDevBackend() *DevBackendConfig {
	var cfg DevBackendConfig
	mustProcess(context.Background(), &cfg, envconfig.OsLookuper())
	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			panic("config: JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "dev-secret"
	}
	return &cfg
}

func mustProcess(ctx context.Context, target any, lookuper envconfig.Lookuper) {
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: target, Lookuper: lookuper}); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
}
