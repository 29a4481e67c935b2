package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CoverGap-Intelligence/internal/config"
)

// validConfig returns a Config with every backend enabled that passes Validate.
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Database.Enabled = true
	cfg.Database.User = "covergap"
	cfg.Database.Password = "secret"
	cfg.Redis.Enabled = true
	cfg.Kafka.Enabled = true
	cfg.Archive.Enabled = true
	cfg.Archive.Endpoint = "minio:9000"
	return cfg
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_DefaultsOnly(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	assert.NoError(t, cfg.Validate(), "all backends disabled needs no credentials")
}

func TestConfig_Validate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantKey string
	}{
		{"port zero", func(c *config.Config) { c.Server.Port = 0 }, "server.port"},
		{"port too high", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad mode", func(c *config.Config) { c.Server.Mode = "prod" }, "server.mode"},
		{"database host", func(c *config.Config) { c.Database.Host = "" }, "database.host"},
		{"database user", func(c *config.Config) { c.Database.User = "" }, "database.user"},
		{"database name", func(c *config.Config) { c.Database.DBName = "" }, "database.db_name"},
		{"database conns", func(c *config.Config) { c.Database.MaxConns = 0 }, "database.max_conns"},
		{"redis addr", func(c *config.Config) { c.Redis.Addr = "" }, "redis.addr"},
		{"redis db", func(c *config.Config) { c.Redis.DB = -1 }, "redis.db"},
		{"kafka brokers", func(c *config.Config) { c.Kafka.Brokers = nil }, "kafka.brokers"},
		{"kafka topic", func(c *config.Config) { c.Kafka.Topic = "" }, "kafka.topic"},
		{"kafka acks", func(c *config.Config) { c.Kafka.RequiredAcks = 2 }, "kafka.required_acks"},
		{"archive endpoint", func(c *config.Config) { c.Archive.Endpoint = "" }, "archive.endpoint"},
		{"archive bucket", func(c *config.Config) { c.Archive.Bucket = "" }, "archive.bucket"},
		{"archive retention", func(c *config.Config) { c.Archive.RetentionDays = -1 }, "archive.retention_days"},
		{"max chars", func(c *config.Config) { c.Analyzer.MaxPolicyChars = -1 }, "analyzer.max_policy_chars"},
		{"cache ttl", func(c *config.Config) { c.Analyzer.CacheTTL = -time.Second }, "analyzer.cache_ttl"},
		{"log level", func(c *config.Config) { c.Log.Level = "trace" }, "log.level"},
		{"log format", func(c *config.Config) { c.Log.Format = "text" }, "log.format"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantKey)
		})
	}
}

func TestConfig_Validate_DisabledBackendsSkipped(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Database.Enabled = false
	cfg.Database.User = ""
	cfg.Redis.Enabled = false
	cfg.Redis.Addr = ""
	cfg.Kafka.Enabled = false
	cfg.Kafka.Brokers = nil
	cfg.Archive.Enabled = false
	cfg.Archive.Endpoint = ""
	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, config.DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, config.DefaultRedisKeyPrefix, cfg.Redis.KeyPrefix)
	assert.Equal(t, []string{config.DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, config.DefaultKafkaTopic, cfg.Kafka.Topic)
	assert.Equal(t, config.DefaultAnalyzerRegion, cfg.Analyzer.DefaultRegion)
	assert.Equal(t, config.DefaultMaxPolicyChars, cfg.Analyzer.MaxPolicyChars)
	assert.Equal(t, config.DefaultCacheTTL, cfg.Analyzer.CacheTTL)
	assert.Equal(t, config.DefaultArchiveBucket, cfg.Archive.Bucket)
	assert.Equal(t, config.DefaultArchivePrefix, cfg.Archive.Prefix)
	assert.Zero(t, cfg.Archive.RetentionDays)
	assert.Equal(t, config.DefaultMetricsPath, cfg.Metrics.Path)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	cfg.Server.Port = 9999
	cfg.Analyzer.DefaultRegion = "India"
	cfg.Kafka.Topic = "custom"
	config.ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "India", cfg.Analyzer.DefaultRegion)
	assert.Equal(t, "custom", cfg.Kafka.Topic)
}

func TestApplyDefaults_Nil(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { config.ApplyDefaults(nil) })
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()
	d := config.DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5433, DBName: "covergap", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:5433/covergap?sslmode=require", d.DSN())
}

func TestLogConfig_ToLogConfig(t *testing.T) {
	t.Parallel()
	lc := config.LogConfig{Level: "debug", Format: "console", Output: "/tmp/covergap.log"}.ToLogConfig()
	assert.Equal(t, "debug", lc.Level)
	assert.Equal(t, "console", lc.Format)
	assert.Equal(t, []string{"/tmp/covergap.log"}, lc.OutputPaths)

	assert.Empty(t, config.LogConfig{}.ToLogConfig().OutputPaths)
}

//Personal.AI order the ending
