package app

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/credstack/authd/pkg/cryptox"
	"github.com/credstack/authd/pkg/jwtx"
)

type Config struct {
	SecretKey []byte // Required: HS256 signing key, at least 32 bytes
	Issuer    string // Optional: issuer claim for tokens (default: authd)

	AccessTokenTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTokenTTL time.Duration // Optional: refresh token lifetime (default: 168h)

	LoginRateLimit  int           // Optional: login attempts per client per window (default: 10)
	LoginRateWindow time.Duration // Optional: login rate limit window (default: 1m)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./authd.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Blacklist purge interval (default: 1h)
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present so local runs do not need
// exported variables.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		SecretKey:            []byte(os.Getenv("AUTHD_SECRET_KEY")),
		Issuer:               getEnvOrDefault("AUTHD_ISSUER", "authd"),
		AccessTokenTTL:       getEnvDurationOrDefault("AUTHD_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTokenTTL:      getEnvDurationOrDefault("AUTHD_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),
		LoginRateLimit:       getEnvIntOrDefault("AUTHD_LOGIN_RATE_LIMIT", 10),
		LoginRateWindow:      getEnvDurationOrDefault("AUTHD_LOGIN_RATE_WINDOW", time.Minute),
		DatabaseFile:         getEnvOrDefault("AUTHD_DATABASE_FILE", "authd.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	if len(cfg.SecretKey) < cryptox.MinSigningKeyBytes {
		return Config{}, fmt.Errorf("AUTHD_SECRET_KEY must be set and at least %d bytes",
			cryptox.MinSigningKeyBytes)
	}

	return cfg, nil
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

	// Plain integers are read as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
