package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
}

// UserSettings holds a user's nutrition targets and streak state.
// Exactly one row per user, created lazily on first read/write.
type UserSettings struct {
	ID            uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID        uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex" json:"user_id"`
	DailyGoal     int       `gorm:"not null;default:2000" json:"daily_goal"`
	ProteinGoal   int       `gorm:"not null;default:0" json:"protein_goal"`
	CarbsGoal     int       `gorm:"not null;default:0" json:"carbs_goal"`
	FatsGoal      int       `gorm:"not null;default:0" json:"fats_goal"`
	CurrentStreak int       `gorm:"not null;default:0" json:"current_streak"`
	// LastLogDate is the calendar day (YYYY-MM-DD, user-local) of the most
	// recent meal log that advanced the streak.
	LastLogDate string    `gorm:"size:10" json:"last_log_date"`
	Timezone    string    `gorm:"size:64" json:"timezone"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
