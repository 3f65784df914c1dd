package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitbite/backend/internal/models"
)

// StreakService maintains the consecutive-day meal-logging streak. It is
// invoked as a best-effort side effect of meal logging: callers log and
// swallow its errors so a streak failure never fails the meal log.
type StreakService struct {
	db *gorm.DB
}

func NewStreakService(db *gorm.DB) *StreakService {
	return &StreakService{db: db}
}

// RecordMealLog advances the streak for a meal logged on localDate
// (YYYY-MM-DD, the caller's calendar). An empty localDate falls back to
// the server's UTC date.
//
// Transitions: same day as last log is a no-op; the day after the last
// log increments the streak; anything else resets it to 1. Calendar
// subtraction keeps the comparison correct across DST.
func (s *StreakService) RecordMealLog(ctx context.Context, userID uuid.UUID, localDate string) error {
	today := localDate
	if today == "" {
		today = time.Now().UTC().Format("2006-01-02")
	}
	parsed, err := time.Parse("2006-01-02", today)
	if err != nil {
		return fmt.Errorf("invalid local date %q: %w", today, err)
	}

	var settings models.UserSettings
	err = s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		// First meal log before any settings write: seed defaults so the
		// streak starts counting immediately.
		settings = models.UserSettings{
			ID:        uuid.New(),
			UserID:    userID,
			DailyGoal: 2000,
		}
		if err := s.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	if settings.LastLogDate == today {
		return nil // already counted today
	}

	yesterday := parsed.AddDate(0, 0, -1).Format("2006-01-02")
	newStreak := 1
	if settings.LastLogDate == yesterday {
		newStreak = settings.CurrentStreak + 1
	}

	return s.db.WithContext(ctx).
		Model(&models.UserSettings{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"current_streak": newStreak,
			"last_log_date":  today,
		}).Error
}
