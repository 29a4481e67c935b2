package postgres

import (
	stderrors "errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file source driver

	"github.com/turtacn/CoverGap-Intelligence/internal/infrastructure/monitoring/logging"
)

// MigrationState is the applied schema version.
type MigrationState struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// Migrator applies the SQL files under SourceURL (e.g. "file://migrations").
type Migrator struct {
	sourceURL   string
	databaseURL string
	logger      logging.Logger
	newMigrate  func(source, database string) (migrateRunner, error)
}

// migrateRunner is the part of *migrate.Migrate the Migrator drives.
type migrateRunner interface {
	Up() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	Close() (error, error)
}

func NewMigrator(sourceURL, databaseURL string, log logging.Logger) *Migrator {
	return &Migrator{
		sourceURL:   sourceURL,
		databaseURL: databaseURL,
		logger:      log,
		newMigrate: func(source, database string) (migrateRunner, error) {
			return migrate.New(source, database)
		},
	}
}

func (m *Migrator) open() (migrateRunner, error) {
	r, err := m.newMigrate(m.sourceURL, m.databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return r, nil
}

// Up applies all pending migrations.  Nothing to apply is not an error.
func (m *Migrator) Up() error {
	r, err := m.open()
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	state, err := status(r)
	if err != nil {
		return err
	}
	m.logger.Info("Database migrations completed",
		logging.Int64("version", int64(state.Version)),
		logging.Bool("dirty", state.Dirty),
	)
	return nil
}

// Down rolls back steps migrations.
func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be greater than 0, got %d", steps)
	}
	r, err := m.open()
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("no migrations to roll back")
		}
		return fmt.Errorf("failed to rollback %d step(s): %w", steps, err)
	}
	m.logger.Info("Database migrations rolled back", logging.Int("steps", steps))
	return nil
}

// Status reports the applied version; 0 when nothing has been applied.
func (m *Migrator) Status() (MigrationState, error) {
	r, err := m.open()
	if err != nil {
		return MigrationState{}, err
	}
	defer r.Close()
	return status(r)
}

// Force sets the version without running migrations, to recover from a dirty
// state.
func (m *Migrator) Force(version int) error {
	r, err := m.open()
	if err != nil {
		return err
	}
	defer r.Close()

	if err := r.Force(version); err != nil {
		return fmt.Errorf("failed to force version %d: %w", version, err)
	}
	m.logger.Warn("Migration version forced", logging.Int("version", version))
	return nil
}

func status(r migrateRunner) (MigrationState, error) {
	version, dirty, err := r.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return MigrationState{}, nil
		}
		return MigrationState{}, fmt.Errorf("failed to get migration version: %w", err)
	}
	return MigrationState{Version: version, Dirty: dirty}, nil
}

//Personal.AI order the ending
