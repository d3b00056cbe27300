package database

import (
	"os"

	"starwars-api/config"

	"github.com/jmoiron/sqlx"
	"github.com/umakantv/go-utils/db"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// InitializeDatabase opens the configured store and applies pending migrations.
// The process exits if either step fails.
func InitializeDatabase(cfg config.DatabaseConfig) *sqlx.DB {
	dbConn, err := connect(cfg)
	if err != nil {
		logger.Error("Error while connecting to database", zap.String("driver", cfg.Driver), zap.Error(err))
		os.Exit(1)
	}

	err = Migrate(dbConn, cfg.MigrationsDir)
	if err != nil {
		logger.Error("Error while running migration", zap.String("dir", cfg.MigrationsDir), zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database initialized successfully", zap.String("driver", cfg.Driver))
	return dbConn
}

func connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg.Driver == config.DriverSQLite {
		return db.GetDBConnection(db.DatabaseConfig{
			DRIVER: config.DriverSQLite,
			DB:     cfg.DSN,
		}), nil
	}
	return sqlx.Connect(cfg.Driver, cfg.DSN)
}
