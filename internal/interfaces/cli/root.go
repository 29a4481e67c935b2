// Package cli implements the covergap command tree.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/CoverGap-Intelligence/internal/app"
	"github.com/turtacn/CoverGap-Intelligence/internal/config"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// BuildInfo holds version information injected at build time.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", b.Version, b.Commit, b.BuildDate)
}

// annotationServer marks commands that log like a server: configured format
// and outputs instead of console on stderr.
const annotationServer = "covergap/server"

type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath   string
	LogLevel     string
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config       *config.Config
	ConfigPath   string
	Logger       logging.Logger
	OutputFormat string
	Verbose      bool
	Timeout      time.Duration
	Build        BuildInfo
}

// NewApp wires the service for a command.  The caller closes it.
func (c *CLIContext) NewApp(ctx context.Context, withBackends bool) (*app.App, error) {
	return app.New(ctx, c.Config, c.Logger, app.Options{
		Version:      c.Build.Version,
		WithBackends: withBackends,
	})
}

// WithTimeout bounds ctx by the --timeout flag; zero means no bound.
func (c *CLIContext) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.Timeout)
}

// Render writes data in the selected output format to the command's stdout.
func (c *CLIContext) Render(cmd *cobra.Command, data interface{}) error {
	return Render(cmd.OutOrStdout(), c.OutputFormat, data)
}

// NewRootCommand creates the root command with global flags and subcommands.
func NewRootCommand(build BuildInfo) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "covergap",
		Short: "Benchmark gap analysis for insurance policies",
		Long: "covergap compares the wording of an insurance policy with regional benchmark\n" +
			"tables and reports missing or under-limited coverages with a prioritised\n" +
			"action plan.",
		Version: build.String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts, build)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: COVERGAP_* environment only)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pf.StringVarP(&opts.OutputFormat, "output", "o", FormatText, "output format (text, json, table, markdown, csv)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "operation timeout for one-shot commands")

	cmd.AddCommand(
		newAnalyzeCmd(),
		newCompareCmd(),
		newBenchmarksCmd(),
		newServeCmd(),
		newMigrateCmd(),
		newEventsCmd(),
		newReportsCmd(),
		newHealthCmd(),
		newVersionCmd(build),
	)
	return cmd
}

func persistentPreRun(cmd *cobra.Command, opts *RootOptions, build BuildInfo) error {
	format := strings.ToLower(opts.OutputFormat)
	if !ValidOutputFormat(format) {
		return errors.InvalidInput("unsupported output format").WithDetail(opts.OutputFormat)
	}

	cfg, err := config.LoadOrEnv(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	logger, err := initLogger(cfg, opts, cmd.Annotations[annotationServer] != "")
	if err != nil {
		return fmt.Errorf("logger initialization failed: %w", err)
	}
	logging.SetDefault(logger)

	cliCtx := &CLIContext{
		Config:       cfg,
		ConfigPath:   opts.ConfigPath,
		Logger:       logger,
		OutputFormat: format,
		Verbose:      opts.Verbose,
		Timeout:      opts.Timeout,
		Build:        build,
	}
	cmd.SetContext(context.WithValue(cmd.Context(), cliContextKey{}, cliCtx))
	return nil
}

// initLogger keeps stdout clean for results: one-shot commands log in console
// format to stderr, the server uses the configured sink.
func initLogger(cfg *config.Config, opts *RootOptions, server bool) (logging.Logger, error) {
	logCfg := cfg.Log.ToLogConfig()
	if !server {
		logCfg.Format = "console"
		logCfg.OutputPaths = []string{"stderr"}
		if opts.LogLevel == "" && !opts.Verbose {
			logCfg.Level = "warn"
		}
	}
	if opts.LogLevel != "" {
		logCfg.Level = opts.LogLevel
	}
	if opts.Verbose {
		logCfg.Level = "debug"
	}
	return logging.NewLogger(logCfg)
}

// GetCLIContext extracts CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.InternalConfiguration("command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.InternalConfiguration("CLI context not initialised")
	}
	return cliCtx, nil
}

// ExitError carries a process exit status other than 1.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps a command error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Execute runs the command tree with os.Args and returns the exit status.
func Execute(build BuildInfo) int {
	rootCmd := NewRootCommand(build)
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		PrintError(rootCmd.ErrOrStderr(), err)
	}
	return ExitCode(err)
}

// PrintError writes err to w.  Coded errors render as "[CODE] message" so
// scripts can match on the code.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// readInput returns the contents of path, or of stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to read stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInvalidInput, "failed to read policy file").WithDetail(path)
	}
	return string(data), nil
}

//Personal.AI order the ending
