// Package testdb provides throwaway SQLite databases carrying the real schema.
package testdb

import (
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
)

var initLogger sync.Once

// MigrationsDir returns the absolute path of the sqlite3 migrations
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "database", "migrations", "sqlite3")
}

// New opens a SQLite database in the test's temp dir and migrates it with
// the same migrator the service runs at startup. The database is closed
// when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	// the migrator logs through go-utils logger
	initLogger.Do(func() {
		logger.Init(logger.LoggerConfig{
			CallerKey:  "file",
			TimeKey:    "timestamp",
			CallerSkip: 1,
		})
	})

	db, err := sqlx.Connect("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Migrate(db, MigrationsDir()))
	return db
}
