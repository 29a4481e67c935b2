package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CoverGap-Intelligence/internal/interfaces/http/handlers"
	"github.com/turtacn/CoverGap-Intelligence/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil handlers leave their routes unmounted.
type RouterConfig struct {
	CoverageHandler *handlers.CoverageHandler
	HealthHandler   *handlers.HealthHandler

	Logger           logging.Logger
	MetricsCollector prometheus.MetricsCollector
	Metrics          *prometheus.GapMetrics
	MetricsPath      string

	CORS      middleware.CORSConfig
	RateLimit middleware.RateLimitConfig
}

// NewRouter constructs the HTTP route tree.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	metricsPath := cfg.MetricsPath
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	logCfg := middleware.DefaultLoggingConfig()
	logCfg.SkipPaths = []string{"/healthz", "/readyz", metricsPath}
	logCfg.Metrics = cfg.Metrics
	r.Use(middleware.RequestLogging(logger, logCfg))

	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORS))
	}
	rl := cfg.RateLimit
	if rl.SkipPaths == nil {
		rl.SkipPaths = logCfg.SkipPaths
	}
	r.Use(middleware.RateLimit(rl))

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle(metricsPath, cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.CoverageHandler != nil {
			cfg.CoverageHandler.RegisterRoutes(api)
		}
	})

	return r
}

//Personal.AI order the ending
