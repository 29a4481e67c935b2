package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/turtacn/CoverGap-Intelligence/internal/app"
	"github.com/turtacn/CoverGap-Intelligence/internal/config"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

// schemaMigrator is the part of *postgres.Migrator the commands drive.
type schemaMigrator interface {
	Up() error
	Down(steps int) error
	Status() (postgres.MigrationState, error)
	Force(version int) error
}

// newMigrator is replaced in tests.
var newMigrator = func(cfg config.DatabaseConfig, logger logging.Logger) schemaMigrator {
	return app.NewMigrator(cfg, logger)
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the report store schema",
		Long: "Applies the SQL migrations under database.migration_path to the configured\n" +
			"PostgreSQL database.",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, cc *CLIContext, m schemaMigrator, args []string) error {
				if err := m.Up(); err != nil {
					return err
				}
				return renderStatus(cmd, cc, m)
			}),
		},
		&cobra.Command{
			Use:   "down [STEPS]",
			Short: "Roll back migrations (default 1 step)",
			Args:  cobra.MaximumNArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, cc *CLIContext, m schemaMigrator, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return errors.InvalidInput("STEPS must be a positive integer").WithDetail(args[0])
					}
					steps = n
				}
				if err := m.Down(steps); err != nil {
					return err
				}
				return renderStatus(cmd, cc, m)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(cmd *cobra.Command, cc *CLIContext, m schemaMigrator, args []string) error {
				return renderStatus(cmd, cc, m)
			}),
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Set the schema version without migrating, to clear a dirty state",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(cmd *cobra.Command, cc *CLIContext, m schemaMigrator, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil || v < -1 {
					return errors.InvalidInput("VERSION must be an integer >= -1").WithDetail(args[0])
				}
				if err := m.Force(v); err != nil {
					return err
				}
				return renderStatus(cmd, cc, m)
			}),
		},
	)
	return cmd
}

type migrateFunc func(cmd *cobra.Command, cc *CLIContext, m schemaMigrator, args []string) error

func withMigrator(fn migrateFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cc, err := GetCLIContext(cmd)
		if err != nil {
			return err
		}
		return fn(cmd, cc, newMigrator(cc.Config.Database, cc.Logger.Named("migrate")), args)
	}
}

func renderStatus(cmd *cobra.Command, cc *CLIContext, m schemaMigrator) error {
	state, err := m.Status()
	if err != nil {
		return err
	}
	return cc.Render(cmd, migrationView{state})
}

//Personal.AI order the ending
