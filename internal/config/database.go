package config

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"student-sync-backend/internal/models"
)

// InitDB opens the postgres connection. It exits the process when the
// database cannot be reached.
func InitDB(cfg *Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	log.Println("Successfully connected to database")
	return db
}

// Migrate creates or updates the tables owned by this service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Class{},
		&models.Student{},
		&models.TuitionFee{},
		&models.FeeRecord{},
		&models.StudentDeletionLog{},
	)
}
