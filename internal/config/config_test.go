package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "demo-project")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, StoreDriverFirestore, cfg.StoreDriver)
	assert.Equal(t, "NgCRUD", cfg.SiteName)
	assert.Equal(t, "ngcrud.events", cfg.EventsExchange)
	assert.Equal(t, "20-S", cfg.RateLimit)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10*time.Minute, cfg.OwnerCacheTTL)
	assert.Empty(t, cfg.TrustedProxies)
	assert.False(t, cfg.IsRelease())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("FIREBASE_PROJECT_ID", "demo-project")
	t.Setenv("PORT", "9090")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SITE_NAME", "Things")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.1.0.0/16")

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsRelease())
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, "Things", cfg.SiteName)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, []string{"10.0.0.1", "10.1.0.0/16"}, cfg.TrustedProxies)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			FirebaseProjectID: "demo-project",
			StoreDriver:       StoreDriverFirestore,
			RateLimit:         "20-S",
			ShutdownTimeout:   time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing project", mutate: func(c *Config) { c.FirebaseProjectID = "" }, wantErr: "FIREBASE_PROJECT_ID"},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "postgres" }, wantErr: "STORE_DRIVER"},
		{name: "bad rate", mutate: func(c *Config) { c.RateLimit = "fast" }, wantErr: "RATE_LIMIT"},
		{name: "negative cache ttl", mutate: func(c *Config) { c.OwnerCacheTTL = -time.Second }, wantErr: "OWNER_CACHE_TTL"},
		{name: "zero timeout", mutate: func(c *Config) { c.ShutdownTimeout = 0 }, wantErr: "SHUTDOWN_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
