package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// Store drivers accepted by STORE_DRIVER.
const (
	StoreDriverFirestore = "firestore"
	StoreDriverMemory    = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Port                             string        `mapstructure:"PORT"`
	GinMode                          string        `mapstructure:"GIN_MODE"`
	FirebaseProjectID                string        `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string        `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string        `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`
	StoreDriver                      string        `mapstructure:"STORE_DRIVER"`
	ClientURL                        string        `mapstructure:"CLIENT_URL"`
	SiteName                         string        `mapstructure:"SITE_NAME"`
	RabbitMQURL                      string        `mapstructure:"RABBITMQ_URL"`
	EventsExchange                   string        `mapstructure:"EVENTS_EXCHANGE"`
	RedisURL                         string        `mapstructure:"REDIS_URL"`
	RateLimit                        string        `mapstructure:"RATE_LIMIT"`
	TrustedProxies                   []string      `mapstructure:"TRUSTED_PROXIES"`
	OwnerCacheTTL                    time.Duration `mapstructure:"OWNER_CACHE_TTL"`
	ShutdownTimeout                  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var keys = []string{
	"PORT",
	"GIN_MODE",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"STORE_DRIVER",
	"CLIENT_URL",
	"SITE_NAME",
	"RABBITMQ_URL",
	"EVENTS_EXCHANGE",
	"REDIS_URL",
	"RATE_LIMIT",
	"TRUSTED_PROXIES",
	"OWNER_CACHE_TTL",
	"SHUTDOWN_TIMEOUT",
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("STORE_DRIVER", StoreDriverFirestore)
	v.SetDefault("SITE_NAME", "NgCRUD")
	v.SetDefault("EVENTS_EXCHANGE", "ngcrud.events")
	v.SetDefault("RATE_LIMIT", "20-S")
	v.SetDefault("OWNER_CACHE_TTL", "10m")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and enumerations.
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	switch c.StoreDriver {
	case StoreDriverFirestore, StoreDriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverFirestore, StoreDriverMemory, c.StoreDriver)
	}
	if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
		return fmt.Errorf("RATE_LIMIT is invalid: %w", err)
	}
	if c.OwnerCacheTTL < 0 {
		return errors.New("OWNER_CACHE_TTL cannot be negative")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}
