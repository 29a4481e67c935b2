package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort        = 8080
	DefaultServerMode        = "release"
	DefaultServerMaxBodySize = 2 << 20

	DefaultDBHost          = "localhost"
	DefaultDBPort          = 5432
	DefaultDBName          = "covergap"
	DefaultDBMaxConns      = 10
	DefaultDBMigrationPath = "file://migrations"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "covergap:"

	DefaultKafkaBroker = "localhost:9092"
	DefaultKafkaTopic  = "coverage.analyzed"

	DefaultArchiveRegion = "us-east-1"
	DefaultArchiveBucket = "covergap-reports"
	DefaultArchivePrefix = "analyses/"

	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "covergap"

	DefaultAnalyzerRegion = "UK"
	// DefaultMaxPolicyChars keeps matching bounded for pasted documents.
	DefaultMaxPolicyChars = 200000
	DefaultCacheTTL       = time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with its default.  Values
// already set by the caller are left unchanged so that explicit configuration
// always wins.  It must run after unmarshalling and before Validate.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultServerMaxBodySize
	}
	if cfg.Server.RateLimitRPS > 0 && cfg.Server.RateLimitBurst == 0 {
		cfg.Server.RateLimitBurst = int(cfg.Server.RateLimitRPS * 2)
		if cfg.Server.RateLimitBurst < 1 {
			cfg.Server.RateLimitBurst = 1
		}
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = time.Hour
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30 * time.Minute
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = DefaultDBMigrationPath
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}
	// DB is an int; 0 is a valid explicit value and also the default.

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = DefaultKafkaTopic
	}
	if cfg.Kafka.BatchTimeout == 0 {
		cfg.Kafka.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}
	if cfg.Kafka.MaxAttempts == 0 {
		cfg.Kafka.MaxAttempts = 3
	}

	// ── Archive ───────────────────────────────────────────────────────────────
	if cfg.Archive.Region == "" {
		cfg.Archive.Region = DefaultArchiveRegion
	}
	if cfg.Archive.Bucket == "" {
		cfg.Archive.Bucket = DefaultArchiveBucket
	}
	if cfg.Archive.Prefix == "" {
		cfg.Archive.Prefix = DefaultArchivePrefix
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Analyzer ──────────────────────────────────────────────────────────────
	if cfg.Analyzer.DefaultRegion == "" {
		cfg.Analyzer.DefaultRegion = DefaultAnalyzerRegion
	}
	if cfg.Analyzer.MaxPolicyChars == 0 {
		cfg.Analyzer.MaxPolicyChars = DefaultMaxPolicyChars
	}
	if cfg.Analyzer.CacheTTL == 0 {
		cfg.Analyzer.CacheTTL = DefaultCacheTTL
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

//Personal.AI order the ending
