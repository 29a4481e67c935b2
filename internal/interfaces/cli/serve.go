package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/turtacn/CoverGap-Intelligence/internal/app"
	"github.com/turtacn/CoverGap-Intelligence/internal/config"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
)

type serveOptions struct {
	port    int
	offline bool
	migrate bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: "Serves the gap analysis API with health probes and Prometheus metrics.\n" +
			"PostgreSQL, Redis and Kafka are connected when enabled in the config.\n" +
			"With --config, log level changes in the file apply without a restart.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationServer: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.port, "port", 0, "listen port (overrides server.port)")
	f.BoolVar(&opts.offline, "offline", false, "do not connect configured backends")
	f.BoolVar(&opts.migrate, "migrate", false, "apply pending database migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cc, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	cfg := cc.Config
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.migrate && cfg.Database.Enabled && !opts.offline {
		if err := app.NewMigrator(cfg.Database, cc.Logger.Named("migrate")).Up(); err != nil {
			return err
		}
	}

	a, err := app.New(ctx, cfg, cc.Logger, app.Options{
		Version:      cc.Build.Version,
		WithBackends: !opts.offline,
		WithMetrics:  true,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	if cc.ConfigPath != "" {
		watchLogLevel(cc.ConfigPath, cc.Logger)
	}

	cc.Logger.Info("Starting covergap API server",
		logging.String("version", cc.Build.Version),
		logging.Int("port", cfg.Server.Port),
		logging.Bool("postgres", cfg.Database.Enabled && !opts.offline),
		logging.Bool("redis", cfg.Redis.Enabled && !opts.offline),
		logging.Bool("kafka", cfg.Kafka.Enabled && !opts.offline),
		logging.Bool("archive", cfg.Archive.Enabled && !opts.offline),
	)
	return a.Serve(ctx, nil)
}

// watchLogLevel applies log.level edits in the config file to logger.
func watchLogLevel(path string, logger logging.Logger) {
	setter, ok := logger.(logging.LevelSetter)
	if !ok {
		return
	}
	config.Watch(path, func(cfg *config.Config) {
		next := strings.ToLower(cfg.Log.Level)
		if next == setter.Level() {
			return
		}
		setter.SetLevel(next)
		logger.Info("Log level changed", logging.String("level", setter.Level()))
	}, func(err error) {
		logger.Warn("Ignoring invalid config change", logging.Err(err))
	})
}

//Personal.AI order the ending
