package database

import (
	"fmt"
	"os"
	"path/filepath"

	"recipe-catalog-backend/config"
	"recipe-catalog-backend/models"
	"recipe-catalog-backend/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured store. SQLite is the default; the DSN
// takes the write lock at BEGIN so concurrent multi-statement transactions
// cannot interleave.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	}

	switch cfg.DBDriver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
	case "sqlite":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dsn := cfg.SQLitePath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
		db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// Single shared connection; SQLite serializes writers anyway.
		sqlDB.SetMaxOpenConns(1)
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Migrate creates or updates every table the catalog owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.RecipeTag{},
		&models.Comment{},
		&models.Rating{},
		&models.Favorite{},
		&models.Report{},
		&models.AuditLogEntry{},
	)
}

// Seed creates the default categories and the bootstrap administrator
// account. Idempotent: existing rows are left untouched.
func Seed(db *gorm.DB, cfg *config.Config) error {
	categories := []models.Category{
		{Name: "Appetizers", Description: "Starter dishes"},
		{Name: "Main Dishes", Description: "Large meals"},
		{Name: "Desserts", Description: "Sweet recipes"},
		{Name: "Soups", Description: "Hot and cold soups"},
		{Name: "Vegan", Description: "Plant-based recipes"},
	}
	for _, category := range categories {
		var existing models.Category
		if err := db.Where("name = ?", category.Name).First(&existing).Error; err != nil {
			if err := db.Create(&category).Error; err != nil {
				return err
			}
		}
	}

	var admin models.User
	if err := db.Where("username = ?", cfg.AdminUsername).First(&admin).Error; err == nil {
		return nil
	}
	hash, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin = models.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdministrator,
		IsActive:     true,
	}
	return db.Create(&admin).Error
}
