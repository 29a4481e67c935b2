// API server entry point for CoverGap-Intelligence.  It serves the same API
// as "covergap serve" for deployments that want a single-purpose binary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/turtacn/CoverGap-Intelligence/internal/app"
	"github.com/turtacn/CoverGap-Intelligence/internal/config"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: COVERGAP_* environment only)")
	httpPort := flag.Int("http-port", 0, "HTTP server port (overrides config)")
	migrate := flag.Bool("migrate", false, "apply pending database migrations before serving")
	flag.Parse()

	_ = godotenv.Load()

	if err := run(*configPath, *httpPort, *migrate); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, httpPort int, migrate bool) error {
	cfg, err := config.LoadOrEnv(configPath)
	if err != nil {
		return err
	}
	if httpPort > 0 {
		cfg.Server.Port = httpPort
	}

	logger, err := logging.NewLogger(cfg.Log.ToLogConfig())
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if migrate && cfg.Database.Enabled {
		if err := app.NewMigrator(cfg.Database, logger.Named("migrate")).Up(); err != nil {
			return err
		}
	}

	a, err := app.New(ctx, cfg, logger, app.Options{Version: version, WithBackends: true, WithMetrics: true})
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("Starting CoverGap-Intelligence API server",
		logging.String("version", version),
		logging.Int("http_port", cfg.Server.Port))

	if err := a.Serve(ctx, nil); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

//Personal.AI order the ending
