package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrDirtySchema means an earlier migration stopped halfway and the kv table
// needs manual repair before the store can be opened.
var ErrDirtySchema = errors.New("kv schema is dirty")

// migrateSchema brings the kv schema at dbPath up to the newest embedded
// migration and returns the version it ends on.
//
// migrate closes the *sql.DB it is given, so the schema work runs on its own
// handle rather than the repository pool.
func migrateSchema(dbPath string) (uint, error) {
	handle, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return 0, fmt.Errorf("open %s for migration: %w", dbPath, err)
	}

	m, err := newMigrator(handle)
	if err != nil {
		handle.Close()
		return 0, err
	}
	defer m.Close()

	if version, dirty, err := m.Version(); err == nil && dirty {
		return version, fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}

	switch err := m.Up(); {
	case errors.Is(err, migrate.ErrNoChange):
	case err != nil:
		return 0, fmt.Errorf("apply kv migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("read kv schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("%w at version %d", ErrDirtySchema, version)
	}
	slog.Debug("kv schema ready", "path", dbPath, "version", version)
	return version, nil
}

func newMigrator(handle *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("load embedded migrations: %w", err)
	}
	target, err := sqlite.WithInstance(handle, &sqlite.Config{})
	if err != nil {
		source.Close()
		return nil, fmt.Errorf("wrap sqlite for migrate: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite", target)
	if err != nil {
		target.Close()
		return nil, fmt.Errorf("build migrator: %w", err)
	}
	return m, nil
}
