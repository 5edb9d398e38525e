package db

import (
	"fmt"
	"time"

	"gamehub/models"
	"gamehub/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the session database and migrates its schema.
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres dbname=gamehub sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := db.AutoMigrate(&models.ClientSession{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	utils.LogInfo("Database connected and migrated", nil)
	return db, nil
}
