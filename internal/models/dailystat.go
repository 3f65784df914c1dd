package models

import (
	"time"

	"github.com/google/uuid"
)

// DailyStat stores per-user daily counters and incidental metrics.
// At most one row per (user_id, date); rows are never deleted.
type DailyStat struct {
	ID     uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_daily_stats_user_date" json:"user_id"`
	// Date is the user-local calendar day, YYYY-MM-DD.
	Date string `gorm:"size:10;not null;uniqueIndex:idx_daily_stats_user_date" json:"date"`

	WaterIntake int      `gorm:"not null;default:0" json:"water_intake"`
	Weight      *float64 `json:"weight"`

	ScanCount       int `gorm:"not null;default:0" json:"scan_count"`
	OverviewCount   int `gorm:"not null;default:0" json:"overview_count"`
	SuggestionCount int `gorm:"not null;default:0" json:"suggestion_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DailyStat) TableName() string {
	return "daily_stats"
}
