package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultDSN         = "host=localhost user=postgres password=postgres dbname=inventory port=5432 sslmode=disable"
	defaultCORSOrigins = "http://localhost:5173"
)

type Config struct {
	Env             string
	LogLevel        string
	HTTPPort        string
	DatabaseDSN     string
	DBLogLevel      string
	JWTSecret       string
	JWTTTL          time.Duration
	CORSOrigins     string
	ShutdownTimeout time.Duration

	// Warnings collected while loading; logged by the caller once the logger exists.
	Warnings []string
}

// Load reads an optional .env file from the working directory and then the
// process environment. Environment variables take precedence.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DATABASE_DSN", defaultDSN)
	v.SetDefault("DB_LOG_LEVEL", "warn")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL_HOURS", 24)
	v.SetDefault("CORS_ALLOWED_ORIGINS", defaultCORSOrigins)
	v.SetDefault("SHUTDOWN_TIMEOUT_SECONDS", 10)

	cfg := &Config{
		Env:             v.GetString("APP_ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		HTTPPort:        v.GetString("HTTP_PORT"),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		DBLogLevel:      v.GetString("DB_LOG_LEVEL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTTTL:          time.Duration(v.GetInt("JWT_TTL_HOURS")) * time.Hour,
		CORSOrigins:     v.GetString("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT_SECONDS")) * time.Second,
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("config: JWT_SECRET is not set")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("config: JWT_SECRET must be at least 32 characters")
	}
	if cfg.JWTTTL <= 0 {
		return nil, errors.New("config: JWT_TTL_HOURS must be positive")
	}

	if cfg.DatabaseDSN == defaultDSN {
		cfg.Warnings = append(cfg.Warnings, "DATABASE_DSN uses the default value, set your own Postgres DSN for production")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		cfg.Warnings = append(cfg.Warnings, "CORS_ALLOWED_ORIGINS uses the default value, set your own origins for production")
	}

	return cfg, nil
}

// AllowedOrigins returns the comma separated CORS origins, trimmed.
func (c *Config) AllowedOrigins() string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
