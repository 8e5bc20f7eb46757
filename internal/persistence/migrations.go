package persistence

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // registers the postgres:// driver
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ErrMigrationURL is returned when the DSN is not a postgres:// URL.
var ErrMigrationURL = errors.New("migrations need a postgres:// or postgresql:// DSN")

func migrationSource() (source.Driver, error) {
	return iofs.New(migrationFS, "migrations")
}

// RunMigrations brings the schema up to the latest embedded version. A failed
// migration leaves the version marked dirty and later runs refuse to continue
// until it is resolved, so no file is applied twice.
func RunMigrations(databaseURL string, logger *zap.Logger) error {
	if databaseURL == "" {
		logger.Warn("no postgres DSN; skipping migrations")
		return nil
	}
	if !strings.HasPrefix(databaseURL, "postgres://") && !strings.HasPrefix(databaseURL, "postgresql://") {
		return ErrMigrationURL
	}

	src, err := migrationSource()
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("closing migrate", zap.NamedError("source", srcErr), zap.NamedError("database", dbErr))
		}
	}()

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	switch {
	case err != nil:
		logger.Warn("could not read migration version", zap.Error(err))
	case dirty:
		return fmt.Errorf("migration version %d is dirty", version)
	case errors.Is(upErr, migrate.ErrNoChange):
		logger.Info("schema up to date", zap.Uint("version", version))
	default:
		logger.Info("migrations applied", zap.Uint("version", version))
	}
	return nil
}
