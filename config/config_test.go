package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/niksmo/storefront/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadArgsDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_CONFIG_FILE", "")
	t.Setenv("STOREFRONT_API_URL", "")

	cfg, err := config.LoadArgs(nil)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, "/api", cfg.API.Prefix)
	assert.Empty(t, cfg.API.ShippingPrefix)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Query.StaleTime)
	assert.Equal(t, 10*time.Minute, cfg.Query.GCTime)
	assert.Equal(t, 3, cfg.Query.Retry)
	assert.Equal(t, 1, cfg.Query.MutationRetry)
	assert.False(t, cfg.EventsEnabled())
}

func TestLoadArgsFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(`
log_level: debug
api:
  base_url: http://shop.internal:8080
  shipping_prefix: /api
  timeout: 3s
query:
  retry: 5
broker:
  seed_brokers: [kafka-1:9092, kafka-2:9092]
  topics:
    client_events: events
`), 0o600)
	require.NoError(t, err)

	t.Setenv("STOREFRONT_CONFIG_FILE", path)
	t.Setenv("STOREFRONT_API_URL", "")
	t.Setenv("STOREFRONT_QUERY_STALE_TIME", "30s")

	cfg, err := config.LoadArgs([]string{"products", "--page", "2"})
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "http://shop.internal:8080", cfg.API.BaseURL)
	assert.Equal(t, "/api", cfg.API.ShippingPrefix)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Query.StaleTime)
	assert.Equal(t, 5, cfg.Query.Retry)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Broker.SeedBrokers)
	assert.Equal(t, "events", cfg.Broker.Topics.ClientEvents)
	assert.Equal(t, "storefront-cart-events", cfg.Broker.Topics.CartEvents)
	assert.True(t, cfg.EventsEnabled())

	t.Run("EnvOverridesFile", func(t *testing.T) {
		t.Setenv("STOREFRONT_API_URL", "http://from-env:5000")
		cfg, err := config.LoadArgs(nil)
		require.NoError(t, err)
		assert.Equal(t, "http://from-env:5000", cfg.API.BaseURL)
	})

	t.Run("FlagOverridesEnv", func(t *testing.T) {
		t.Setenv("STOREFRONT_API_URL", "http://from-env:5000")
		cfg, err := config.LoadArgs([]string{"--api-url", "http://from-flag:5000"})
		require.NoError(t, err)
		assert.Equal(t, "http://from-flag:5000", cfg.API.BaseURL)
	})
}

func TestLoadArgsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_server_addr: :8080\n"), 0o600))

	_, err := config.LoadArgs([]string{"--config", path})
	require.Error(t, err)
}
