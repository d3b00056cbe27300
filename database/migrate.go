package database

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"starwars-api/config"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// Bookkeeping shared with the go-utils migrator, so either runner can pick
// up a database the other one started.
const (
	migrationFilePattern = `^\d{14}_[a-zA-Z0-9_]+\.sql$`

	createMigrationsTableQuery = `CREATE TABLE IF NOT EXISTS schema_migrations (
		version VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`
	migrationAppliedQuery = "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = ?)"
	recordMigrationQuery  = "INSERT INTO schema_migrations (version) VALUES (?)"
)

var migrationFileRe = regexp.MustCompile(migrationFilePattern)

// Migrate applies the pending forward migrations in dir. SQLite goes through
// the go-utils migrator, which only speaks "?" placeholders; every other
// driver uses migrateRebound.
func Migrate(dbConn *sqlx.DB, dir string) error {
	if dbConn.DriverName() == config.DriverSQLite {
		return migrations.Migrate(dbConn, dir)
	}
	return migrateRebound(dbConn, dir)
}

// migrateRebound runs the same migration flow with the bookkeeping queries
// rebound for the connection's driver
func migrateRebound(dbConn *sqlx.DB, dir string) error {
	if _, err := dbConn.Exec(createMigrationsTableQuery); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	files, err := migrationFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to get migration files: %w", err)
	}

	for _, file := range files {
		if err := applyMigration(dbConn, file); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", file, err)
		}
	}

	logger.Info("All migrations completed successfully", zap.String("driver", dbConn.DriverName()))
	return nil
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		if !migrationFileRe.MatchString(entry.Name()) {
			return nil, fmt.Errorf("invalid migration file %s: want <14 digit UTC timestamp>_<name>.sql", entry.Name())
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func applyMigration(dbConn *sqlx.DB, file string) error {
	version := strings.TrimSuffix(filepath.Base(file), ".sql")

	var applied bool
	if err := dbConn.QueryRow(dbConn.Rebind(migrationAppliedQuery), version).Scan(&applied); err != nil {
		return err
	}
	if applied {
		logger.Info("Migration already applied, skipping", zap.String("version", version))
		return nil
	}

	content, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	logger.Info("Running migration", zap.String("version", version))
	tx, err := dbConn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(string(content)); err != nil {
		return err
	}
	if _, err := tx.Exec(tx.Rebind(recordMigrationQuery), version); err != nil {
		return err
	}
	return tx.Commit()
}
