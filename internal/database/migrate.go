package database

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/fitbite/backend/internal/models"
)

// RunMigrations brings the schema up to date. SQLite (tests) relies on
// GORM auto-migration only; PostgreSQL additionally gets the partial
// unique index that enforces one active workout session per user.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.UserSettings{},
		&models.DailyStat{},
		&models.FoodLog{},
		&models.WorkoutSession{},
		&models.WorkoutLog{},
		&models.WorkoutTemplate{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	if db.Dialector.Name() == "sqlite" {
		log.Printf("Using GORM auto-migration for SQLite")
		return nil
	}

	// One active session per user, enforced at the store layer.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_workout_sessions_one_active
		ON workout_sessions (user_id)
		WHERE status = 'active'
	`).Error; err != nil {
		return fmt.Errorf("failed to create active-session index: %w", err)
	}

	return nil
}
