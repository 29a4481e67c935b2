package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8081
  mode: test
database:
  enabled: true
  host: db.internal
  user: covergap
  password: secret
redis:
  enabled: true
  addr: cache.internal:6379
kafka:
  enabled: false
analyzer:
  default_region: US
  max_policy_chars: 5000
  cache_ttl: 10m
log:
  level: debug
  format: console
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	cfg, err := Load(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "test", cfg.Server.Mode)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, DefaultDBPort, cfg.Database.Port)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, "US", cfg.Analyzer.DefaultRegion)
	assert.Equal(t, 5000, cfg.Analyzer.MaxPolicyChars)
	assert.Equal(t, 10*time.Minute, cfg.Analyzer.CacheTTL)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "server: ["))
	require.Error(t, err)
}

func TestLoad_ValidationFailure(t *testing.T) {
	_, err := Load(createTempConfigFile(t, "log:\n  level: loud\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)
	t.Setenv("COVERGAP_SERVER_PORT", "9999")
	t.Setenv("COVERGAP_ANALYZER_DEFAULT_REGION", "India")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "India", cfg.Analyzer.DefaultRegion)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("COVERGAP_REDIS_ENABLED", "true")
	t.Setenv("COVERGAP_REDIS_ADDR", "redis:6380")
	t.Setenv("COVERGAP_LOG_LEVEL", "warn")
	t.Setenv("COVERGAP_ARCHIVE_ENABLED", "true")
	t.Setenv("COVERGAP_ARCHIVE_ENDPOINT", "minio:9000")
	t.Setenv("COVERGAP_ARCHIVE_RETENTION_DAYS", "30")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "minio:9000", cfg.Archive.Endpoint)
	assert.Equal(t, 30, cfg.Archive.RetentionDays)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
}

func TestLoadOrEnv(t *testing.T) {
	cfg, err := LoadOrEnv("")
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)

	cfg, err = LoadOrEnv(createTempConfigFile(t, validConfigYAML))
	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.Port)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() { MustLoad(filepath.Join(t.TempDir(), "missing.yaml")) })
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	changed := make(chan *Config, 16)
	Watch(path, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	}, nil)

	updated := []byte("log:\n  level: error\n")
	require.NoError(t, os.WriteFile(path, updated, 0o644))

	// A write may surface as several events; wait for one with the new level.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-changed:
			if c.Log.Level == "error" {
				return
			}
		case <-deadline:
			t.Skip("no fsnotify event delivered in time on this filesystem")
		}
	}
}

//Personal.AI order the ending
