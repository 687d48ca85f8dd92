package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	DevAuth    DevAuthConfig
	Pagination PaginationConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

// JWTConfig controls bearer token verification. When JWKSURL is set, signing keys
// are fetched from the identity provider instead of using Secret.
type JWTConfig struct {
	Secret              string
	Expiration          time.Duration
	Issuer              string
	JWKSURL             string
	JWKSRefreshInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// DevAuthConfig gates the local login endpoint that issues test tokens.
type DevAuthConfig struct {
	Enabled bool
}

// PaginationConfig holds list defaults per resource.
type PaginationConfig struct {
	PortalsDefaultLimit     int
	SubmissionsDefaultLimit int
	MaxLimit                int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.JWT = JWTConfig{
		Secret:              v.GetString("JWT_SECRET"),
		Expiration:          parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:              v.GetString("JWT_ISSUER"),
		JWKSURL:             strings.TrimSpace(v.GetString("JWT_JWKS_URL")),
		JWKSRefreshInterval: parseDuration(v.GetString("JWT_JWKS_REFRESH_INTERVAL"), 10*time.Minute),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	// Test tokens are never issued in production, whatever the flag says.
	cfg.DevAuth = DevAuthConfig{
		Enabled: v.GetBool("ENABLE_DEV_AUTH") && cfg.Env != EnvProduction,
	}

	cfg.Pagination = PaginationConfig{
		PortalsDefaultLimit:     positiveOr(v.GetInt("PORTALS_DEFAULT_LIMIT"), 20),
		SubmissionsDefaultLimit: positiveOr(v.GetInt("SUBMISSIONS_DEFAULT_LIMIT"), 10),
		MaxLimit:                positiveOr(v.GetInt("PAGINATION_MAX_LIMIT"), 100),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "payment_portal")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_JWKS_URL", "")
	v.SetDefault("JWT_JWKS_REFRESH_INTERVAL", "10m")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_DEV_AUTH", true)

	v.SetDefault("PORTALS_DEFAULT_LIMIT", 20)
	v.SetDefault("SUBMISSIONS_DEFAULT_LIMIT", 10)
	v.SetDefault("PAGINATION_MAX_LIMIT", 100)
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func positiveOr(value, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return value
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
