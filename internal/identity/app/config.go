package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/vantaworks/identity/pkg/jwtx"
)

type Config struct {
	DatabaseURL string // Optional: sqlite file DSN or postgres:// URL (default: ./identity.db)

	JWTSecretKey string        // Required: HMAC signing secret, at least 32 bytes
	JWTAlgorithm string        // Optional: HS256, HS384 or HS512 (default: HS256)
	Issuer       string        // Optional: issuer claim for tokens (default: identity)
	AccessTTL    time.Duration // Optional: access token lifetime (default: 30m)
	RefreshTTL   time.Duration // Optional: refresh token lifetime (default: 7 days)

	PasswordMinLength int // Optional: password policy minimum (default: 8)

	Env                 string        // Environment (development, testing, production) (default: development)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment, with an optional
// .env file for local development. Values already set in the environment
// win over the file.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		DatabaseURL: getEnvOrDefault(
			"DATABASE_URL",
			"file:identity.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		),
		JWTSecretKey: os.Getenv("JWT_SECRET_KEY"),
		JWTAlgorithm: getEnvOrDefault("JWT_ALGORITHM", "HS256"),
		Issuer:       getEnvOrDefault("JWT_ISSUER", "identity"),
		AccessTTL: time.Duration(
			getEnvIntOrDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30),
		) * time.Minute,
		RefreshTTL: time.Duration(
			getEnvIntOrDefault("REFRESH_TOKEN_EXPIRE_DAYS", 7),
		) * 24 * time.Hour,
		PasswordMinLength:   getEnvIntOrDefault("PASSWORD_MIN_LENGTH", 8),
		Env:                 getEnvOrDefault("ENVIRONMENT", "development"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if len(c.JWTSecretKey) < jwtx.MinSecretLength {
		return fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes", jwtx.MinSecretLength)
	}
	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q", c.JWTAlgorithm)
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.PasswordMinLength < 1 {
		return errors.New("PASSWORD_MIN_LENGTH must be positive")
	}
	return nil
}

// Verbose reports whether error responses may carry internal detail.
// Production never does.
func (c Config) Verbose() bool {
	return c.Env == "development"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
