// Package app assembles the gap analysis service and its optional backends
// from configuration.  Binaries and CLI commands share it so that every entry
// point wires the same way.
package app

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/turtacn/CoverGap-Intelligence/internal/application/gapanalysis"
	"github.com/turtacn/CoverGap-Intelligence/internal/config"
	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/storage/minio"
	httpapi "github.com/turtacn/CoverGap-Intelligence/internal/interfaces/http"
	"github.com/turtacn/CoverGap-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/CoverGap-Intelligence/internal/interfaces/http/middleware"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// App holds the wired service and everything that must be closed with it.
type App struct {
	Config    *config.Config
	Logger    logging.Logger
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.GapMetrics
	Service   gapanalysis.Service
	Checkers  []handlers.HealthChecker

	version string
	closers []func() error
}

// Options selects which backends New connects.  The CLI analyses offline
// and skips them; the server uses everything the config enables.
type Options struct {
	Version      string
	WithBackends bool
	WithMetrics  bool
}

// NewMatcher builds the matcher over the configured catalog: the benchmark
// file when one is set, the built-in tables otherwise.
func NewMatcher(cfg config.AnalyzerConfig) (*coverage.Matcher, error) {
	catalog := coverage.DefaultCatalog()
	if cfg.BenchmarkFile != "" {
		loaded, err := coverage.LoadCatalogFile(cfg.BenchmarkFile)
		if err != nil {
			return nil, err
		}
		catalog = loaded
	}
	return coverage.NewMatcher(catalog)
}

// PostgresConfig maps the database section to connection parameters.
func PostgresConfig(cfg config.DatabaseConfig) postgres.PostgresConfig {
	return postgres.PostgresConfig{
		Host:            cfg.Host,
		Port:            cfg.Port,
		Database:        cfg.DBName,
		Username:        cfg.User,
		Password:        cfg.Password,
		SSLMode:         cfg.SSLMode,
		MaxConns:        int32(cfg.MaxConns),
		MinConns:        int32(cfg.MinConns),
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
	}
}

// ArchiveConfig maps the archive section to object storage parameters.
func ArchiveConfig(cfg config.ArchiveConfig) minio.ArchiveConfig {
	return minio.ArchiveConfig{
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		UseSSL:          cfg.UseSSL,
		Region:          cfg.Region,
		Bucket:          cfg.Bucket,
		Prefix:          cfg.Prefix,
		RetentionDays:   cfg.RetentionDays,
	}
}

// NewMigrator returns a migrator for the configured database.
func NewMigrator(cfg config.DatabaseConfig, logger logging.Logger) *postgres.Migrator {
	return postgres.NewMigrator(cfg.MigrationPath, postgres.BuildDSN(PostgresConfig(cfg)), logger)
}

// New wires the service.  On error everything opened so far is closed.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger, opts Options) (a *App, err error) {
	if cfg == nil {
		return nil, errors.InternalConfiguration("configuration is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	a = &App{Config: cfg, Logger: logger, version: opts.Version}
	defer func() {
		if err != nil {
			_ = a.Close()
			a = nil
		}
	}()

	matcher, err := NewMatcher(cfg.Analyzer)
	if err != nil {
		return nil, err
	}

	if opts.WithMetrics && cfg.Metrics.Enabled {
		a.Collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableGoMetrics:      true,
			EnableProcessMetrics: true,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("metrics collector: %w", err)
		}
		a.Metrics = prometheus.NewGapMetrics(a.Collector)
		a.Metrics.SetBuildInfo(opts.Version)
	}

	svcCfg := gapanalysis.Config{
		Matcher:        matcher,
		Metrics:        a.Metrics,
		Logger:         logger.Named("gapanalysis"),
		DefaultRegion:  cfg.Analyzer.DefaultRegion,
		MaxPolicyChars: cfg.Analyzer.MaxPolicyChars,
		CacheTTL:       cfg.Analyzer.CacheTTL,
	}

	if opts.WithBackends {
		if err = a.connectBackends(ctx, &svcCfg); err != nil {
			return nil, err
		}
	}

	a.Service, err = gapanalysis.NewService(svcCfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) connectBackends(ctx context.Context, svcCfg *gapanalysis.Config) error {
	cfg := a.Config

	if cfg.Database.Enabled {
		conn, err := postgres.NewConnection(ctx, PostgresConfig(cfg.Database), a.Logger.Named("postgres"))
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() error { conn.Close(); return nil })
		repo := repositories.NewPostgresAnalysisRepo(conn.Pool(), a.Logger.Named("repository"))
		svcCfg.Repository = repo
		a.Checkers = append(a.Checkers, handlers.CheckerFunc{ComponentName: "postgres", Fn: conn.HealthCheck})
	}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&redis.RedisConfig{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, a.Logger.Named("redis"))
		if err != nil {
			return err
		}
		a.closers = append(a.closers, client.Close)
		cache := redis.NewAnalysisCache(redis.NewRedisCache(client, a.Logger.Named("cache"),
			redis.WithPrefix(cfg.Redis.KeyPrefix),
			redis.WithDefaultTTL(cfg.Analyzer.CacheTTL),
		))
		svcCfg.Cache = cache
		a.Checkers = append(a.Checkers, handlers.CheckerFunc{ComponentName: "redis", Fn: client.Ping})
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			RequiredAcks: cfg.Kafka.RequiredAcks,
			MaxAttempts:  cfg.Kafka.MaxAttempts,
			BatchTimeout: cfg.Kafka.BatchTimeout,
			WriteTimeout: cfg.Kafka.WriteTimeout,
			Async:        cfg.Kafka.Async,
		}, a.Logger.Named("kafka"))
		if err != nil {
			return err
		}
		a.closers = append(a.closers, producer.Close)
		svcCfg.Publisher = kafka.NewAnalysisPublisher(producer, cfg.Kafka.Topic, a.Logger.Named("events"))
	}

	if cfg.Archive.Enabled {
		archive, err := minio.NewReportArchive(ctx, ArchiveConfig(cfg.Archive), a.Logger.Named("archive"))
		if err != nil {
			return err
		}
		svcCfg.Archive = archive
		a.Checkers = append(a.Checkers, handlers.CheckerFunc{ComponentName: "archive", Fn: archive.Ping})
	}

	return nil
}

// Router builds the HTTP handler over the wired service.
func (a *App) Router() http.Handler {
	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = a.Config.Server.CORSAllowedOrigins

	return httpapi.NewRouter(httpapi.RouterConfig{
		CoverageHandler:  handlers.NewCoverageHandler(a.Service, a.Logger.Named("http"), a.Config.Server.MaxBodySize),
		HealthHandler:    handlers.NewHealthHandler(a.version, a.Checkers...),
		Logger:           a.Logger.Named("http"),
		MetricsCollector: a.Collector,
		Metrics:          a.Metrics,
		MetricsPath:      a.Config.Metrics.Path,
		CORS:             cors,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: a.Config.Server.RateLimitRPS,
			BurstSize:         a.Config.Server.RateLimitBurst,
		},
	})
}

// Serve runs the HTTP API until ctx is done, then drains in-flight requests
// within the configured shutdown timeout.  A nil ln listens on the configured
// port.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := httpapi.NewServer(a.Config.Server, a.Router(), a.Logger.Named("server"))
	if ln == nil {
		var err error
		if ln, err = srv.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}

// Close releases backends in reverse order of opening.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}

//Personal.AI order the ending
