package iocache

import (
	"embed"
	"fmt"
	"io"

	"github.com/huangsam/skillspot/internal/contract"
	"github.com/huangsam/skillspot/internal/sqldb"
	"github.com/huangsam/skillspot/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateAnalysis runs database migrations for the analysis store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func MigrateAnalysis(backend schema.DatabaseBackend, connStr string, targetVersion int, out io.Writer) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}
	if _, err := sqldb.MigrationDir(backend); err != nil {
		return err
	}

	db, err := sqldb.Open(backend, connStr, contract.GetAnalysisDBFilePath())
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return sqldb.Migrate(db, backend, migrationsFS, analysisMigrationsTable, targetVersion, out)
}
