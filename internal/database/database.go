package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"watertax-svc/internal/config"
	"watertax-svc/internal/models"
)

// Database wraps the gorm connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a PostgreSQL connection with the provided configuration
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{DB: db}, nil
}

// AutoMigrate creates or updates the schema for all models
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(
		&models.Connection{},
		&models.RateConfig{},
		&models.Bill{},
		&models.MeterReading{},
		&models.Grievance{},
		&models.OtpChallenge{},
		&models.Payment{},
		&models.BillRunLog{},
	)
}

// Close closes the underlying sql.DB connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
