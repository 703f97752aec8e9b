package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/hilthontt/visper-admin/infrastructure/config"
	"github.com/hilthontt/visper-admin/infrastructure/logger"
)

var dbClient *gorm.DB

func InitDb(cfg *config.Config, zapLogger *zap.Logger) error {
	db, err := gorm.Open(postgres.Open(cfg.GetPostgresConnectionString()), &gorm.Config{
		Logger: logger.NewGormLogger(zapLogger),
	})
	if err != nil {
		return fmt.Errorf("failed to open postgres connection: %w", err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}

	sqlDb.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	sqlDb.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	sqlDb.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	if err := sqlDb.Ping(); err != nil {
		return fmt.Errorf("failed to ping postgres: %w", err)
	}

	dbClient = db

	return nil
}

func GetDb() *gorm.DB {
	return dbClient
}

// SetDb swaps the shared handle, used by tests to point repositories at
// an in-memory database.
func SetDb(db *gorm.DB) {
	dbClient = db
}

func CloseDb() {
	if dbClient == nil {
		return
	}

	if sqlDb, err := dbClient.DB(); err == nil {
		_ = sqlDb.Close()
	}

	dbClient = nil
}
