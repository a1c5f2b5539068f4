package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.Detection.CacheTTL())
	assert.Equal(t, 5*time.Second, cfg.Detection.AnalysisTimeout())
	assert.Equal(t, 60, cfg.Detection.RateLimitPerMinute)
	assert.Equal(t, 20, cfg.Detection.ChatRateLimitPerMinute)
	assert.Equal(t, 10, cfg.Detection.FastPathMaxHeaders)
	assert.Empty(t, cfg.Redis.Addr)
	assert.False(t, cfg.OpenAI.Enabled)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
server:
  host: 127.0.0.1
  port: 9090
redis:
  addr: localhost:6379
detection:
  cache_ttl_hours: 12
  rate_limit_per_minute: 100
logging:
  level: DEBUG
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 12*time.Hour, cfg.Detection.CacheTTL())
	assert.Equal(t, 100, cfg.Detection.RateLimitPerMinute)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)

	// Untouched knobs keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.Detection.AnalysisTimeout())
	assert.Equal(t, 20, cfg.Detection.ChatRateLimitPerMinute)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LOG_LEVEL", "ERROR")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.True(t, cfg.OpenAI.Enabled, "an API key enables the OpenAI responder")
	assert.Equal(t, "ERROR", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresBadPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")

	cfg, err := LoadFromEnv(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestGetHost(t *testing.T) {
	assert.Equal(t, "0.0.0.0", ServerConfig{}.GetHost())
	assert.Equal(t, "10.0.0.1", ServerConfig{Host: "10.0.0.1"}.GetHost())
}
