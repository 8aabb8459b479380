package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/identity/pkg/httpx"
	"github.com/aussiebroadwan/identity/pkg/jwtx"
	"github.com/aussiebroadwan/identity/pkg/tokencache"
	"github.com/hashicorp/go-multierror"
)

type Config struct {
	Issuer         string // issuer claim for tokens (default: identity)
	BootstrapToken string // Optional: token required to perform bootstrap

	SigningKeyFile   string        // Optional: read the signing key from this file instead of AUTH_SIGNING_KEY
	SigningKeySealed bool          // SigningKeyFile is sealed with the master key (default: false)
	MasterKeyPath    string        // Optional: path to the master key file for sealed signing keys
	TokenTTL         time.Duration // lifetime of issued tokens (default: 10m)
	CacheShards      int           // token cache shard count (default: 32)

	DatabaseFile         string        // path to SQLite database file (default: ./identity.db)
	PepperFile           string        // path to file containing pepper for password hashing (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // token cache sweep interval (default: 1m)
	TrustedProxies       string        // Optional: comma separated CIDRs allowed to set X-Forwarded-For
}

func LoadConfig() Config {
	return Config{
		Issuer:               getEnvOrDefault("AUTH_ISSUER", "identity"),
		BootstrapToken:       os.Getenv("BOOTSTRAP_TOKEN"),
		SigningKeyFile:       os.Getenv("AUTH_SIGNING_KEY_FILE"),
		SigningKeySealed:     getEnvBoolOrDefault("AUTH_SIGNING_KEY_SEALED", false),
		MasterKeyPath:        os.Getenv("AUTH_MASTER_KEY_PATH"),
		TokenTTL:             getEnvDurationOrDefault("AUTH_TOKEN_TTL", jwtx.DefaultTokenTTL),
		CacheShards:          getEnvIntOrDefault("AUTH_CACHE_SHARDS", tokencache.DefaultShards),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "identity.db"),
		PepperFile:           getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Minute),
		TrustedProxies:       os.Getenv("AUTH_TRUSTED_PROXIES"),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs *multierror.Error

	if strings.TrimSpace(c.Issuer) == "" {
		errs = multierror.Append(errs, fmt.Errorf("AUTH_ISSUER must not be empty"))
	}
	if c.TokenTTL <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("AUTH_TOKEN_TTL must be positive, got %s", c.TokenTTL))
	}
	if c.CacheShards <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("AUTH_CACHE_SHARDS must be positive, got %d", c.CacheShards))
	}
	if c.SigningKeySealed && c.SigningKeyFile == "" {
		errs = multierror.Append(errs, fmt.Errorf("AUTH_SIGNING_KEY_SEALED requires AUTH_SIGNING_KEY_FILE"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = multierror.Append(errs, fmt.Errorf("PORT out of range: %d", c.Port))
	}
	if c.DatabaseFile == "" {
		errs = multierror.Append(errs, fmt.Errorf("AUTH_DATABASE_FILE must not be empty"))
	}
	if c.PepperFile == "" {
		errs = multierror.Append(errs, fmt.Errorf("AUTH_PEPPER_FILE must not be empty"))
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("AUTH_TRUSTED_PROXIES: %w", err))
	}

	return errs.ErrorOrNil()
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
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

	// Bare integers are seconds.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
