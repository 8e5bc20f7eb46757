package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Session  SessionConfig
	Identity IdentityConfig
	QR       QRConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	LoginPath             string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// SessionConfig selects the session backend and its lifetime.
type SessionConfig struct {
	Backend        string
	IdleTTLMinutes int
	CookieSecure   bool
}

// IdentityConfig points at the external identity provider.
type IdentityConfig struct {
	SignOutURL       string
	SignOutTimeoutMS int
}

// QRConfig selects the QR rendering strategy.
type QRConfig struct {
	Strategy      string
	HostedBaseURL string
}

const (
	SessionBackendRedis  = "redis"
	SessionBackendMemory = "memory"

	DefaultHostedQRBaseURL = "https://api.qrserver.com/v1/create-qr-code/"

	EnvDevelopment = "development"
	// DevJWTSecret is only accepted when APP_ENV is development.
	DevJWTSecret = "dev-secret"
)

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	backend := getEnv("SESSION_BACKEND", SessionBackendRedis)
	if backend != SessionBackendRedis && backend != SessionBackendMemory {
		return nil, fmt.Errorf("invalid SESSION_BACKEND %q", backend)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "openshelf-storefront"),
			Env:                   getEnv("APP_ENV", EnvDevelopment),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			LoginPath:             getEnv("LOGIN_PATH", "/login"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", DevJWTSecret),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Session: SessionConfig{
			Backend:        backend,
			IdleTTLMinutes: getEnvAsInt("SESSION_IDLE_TTL_MINUTES", 30),
			CookieSecure:   getEnvAsBool("COOKIE_SECURE", false),
		},
		Identity: IdentityConfig{
			SignOutURL:       os.Getenv("IDP_SIGNOUT_URL"),
			SignOutTimeoutMS: getEnvAsInt("IDP_SIGNOUT_TIMEOUT_MS", 3000),
		},
		QR: QRConfig{
			Strategy:      getEnv("QR_STRATEGY", "hosted"),
			HostedBaseURL: getEnv("QR_HOSTED_BASE_URL", DefaultHostedQRBaseURL),
		},
	}

	if cfg.Auth.JWTSecret == DevJWTSecret && cfg.App.Env != EnvDevelopment {
		return nil, fmt.Errorf("AUTH_JWT_SECRET must be set when APP_ENV is %q", cfg.App.Env)
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IdleTTL returns how long an untouched session survives.
func (s SessionConfig) IdleTTL() time.Duration {
	if s.IdleTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(s.IdleTTLMinutes) * time.Minute
}

// SignOutTimeout bounds the external sign-out call.
func (i IdentityConfig) SignOutTimeout() time.Duration {
	if i.SignOutTimeoutMS <= 0 {
		return 3 * time.Second
	}
	return time.Duration(i.SignOutTimeoutMS) * time.Millisecond
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
