package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/skillspot/schema"
)

// MigrationDir returns the dialect subdirectory holding the migrations for the backend.
func MigrationDir(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "postgres", nil
	default:
		return "", fmt.Errorf("migrations are not supported for %s backend", backend)
	}
}

// Migrate applies the migrations found under migrations/<dialect> in fsys.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
// Progress messages are written to out when it is not nil.
func Migrate(db *sql.DB, backend schema.DatabaseBackend, fsys fs.FS, migrationsTable string, targetVersion int, out io.Writer) error {
	dir, err := MigrationDir(backend)
	if err != nil {
		return err
	}
	if out == nil {
		out = io.Discard
	}

	// Create a migrate driver instance
	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: migrationsTable})
		if err != nil {
			return fmt.Errorf("failed to create SQLite migrate driver: %w", err)
		}

	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: migrationsTable})
		if err != nil {
			return fmt.Errorf("failed to create MySQL migrate driver: %w", err)
		}

	case schema.PostgreSQLBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{MigrationsTable: migrationsTable, MultiStatementEnabled: true})
		if err != nil {
			return fmt.Errorf("failed to create PostgreSQL migrate driver: %w", err)
		}
	}

	// Get the migrations subdirectory
	migrationFS, err := fs.Sub(fsys, "migrations/"+dir)
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}

	// Create source driver from embedded FS
	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	// Create migrate instance
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "skillspot", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Get current version
	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	// Perform migration
	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintln(out, "No migration needed. Database is already at the latest version.")
		} else {
			newVersion, _, _ := m.Version()
			_, _ = fmt.Fprintf(out, "Successfully migrated from version %d to version %d\n", currentVersion, newVersion)
		}
	case targetVersion == 0:
		// Special case: migrate all the way down to version 0 (no migrations applied)
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintln(out, "No migration needed. Database is already at version 0")
		} else {
			_, _ = fmt.Fprintf(out, "Successfully rolled back from version %d to version 0\n", currentVersion)
		}
	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			_, _ = fmt.Fprintf(out, "No migration needed. Database is already at version %d\n", targetVersion)
		} else {
			_, _ = fmt.Fprintf(out, "Successfully migrated from version %d to version %d\n", currentVersion, targetVersion)
		}
	}

	return nil
}
