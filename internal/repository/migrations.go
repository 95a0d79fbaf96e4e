package repository

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations brings the chat_sessions schema up to date. A migration left
// dirty by a crash is rolled back one version and retried once.
func RunMigrations(databaseURL string) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL)
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer m.Close()

	err = up(m)
	var dirty migrate.ErrDirty
	if !errors.As(err, &dirty) {
		return err
	}

	if ferr := m.Force(forceTarget(dirty.Version)); ferr != nil {
		return fmt.Errorf("reset dirty migration %d: %w", dirty.Version, ferr)
	}
	if err := up(m); err != nil {
		return fmt.Errorf("rerun after dirty migration %d: %w", dirty.Version, err)
	}
	return nil
}

// forceTarget is the version to force before retrying a dirty migration.
// Versions start at 1, so a dirty first migration resets to no version at all.
func forceTarget(dirty int) int {
	if dirty <= 1 {
		return database.NilVersion
	}
	return dirty - 1
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}
