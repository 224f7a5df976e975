package database

import (
	"fmt"

	"crypto-portfolio-go/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase creates a new database connection and performs auto-migration.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates any missing tables and seeds the category
// taxonomy. It is idempotent: existing rows are left untouched.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Category{},
		&models.Coin{},
		&models.CoinCategory{},
		&models.Holding{},
		&models.CoinLog{},
		&models.PortfolioLog{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	// Seed the fixed taxonomy. Ids are stable and part of the contract.
	for _, category := range models.SeedCategories {
		if err := db.FirstOrCreate(&category, models.Category{ID: category.ID}).Error; err != nil {
			return fmt.Errorf("failed to seed category '%s': %w", category.Name, err)
		}
	}

	return nil
}

// Reset drops every table and rebuilds the schema from scratch.
func Reset(db *gorm.DB) error {
	if err := db.Migrator().DropTable(
		&models.PortfolioLog{},
		&models.CoinLog{},
		&models.Holding{},
		&models.CoinCategory{},
		&models.Coin{},
		&models.Category{},
	); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return AutoMigrate(db)
}
