package database

import (
	"fmt"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Castafa/News-ans-Public-opinion/internal/infrastructure/repositories"
)

// Open connects to the user directory database. driver is "postgres" or
// "sqlite"; the sqlite DSN is a file path or ":memory:".
func Open(driver, dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	}

	switch driver {
	case "", "postgres":
		return gorm.Open(postgres.Open(dsn), config)
	case "sqlite":
		db, err := gorm.Open(sqlite.Open(dsn), config)
		if err != nil {
			return nil, err
		}
		// sqlite allows one writer at a time
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// AutoMigrate creates the users and articles tables and the Casbin policy
// table used by the resource registry
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBUser{}, &repositories.DBArticle{}); err != nil {
		return fmt.Errorf("failed to migrate content tables: %w", err)
	}

	// NewAdapterByDB creates casbin_rule when it is missing
	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}

	return nil
}
