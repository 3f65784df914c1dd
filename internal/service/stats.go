package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitbite/backend/internal/models"
)

// AI action kinds gated by per-day quotas.
const (
	ActionScan       = "scan"
	ActionOverview   = "overview"
	ActionSuggestion = "suggestion"
)

// QuotaLimit returns the fixed daily ceiling for an action kind.
func QuotaLimit(action string) int {
	switch action {
	case ActionScan:
		return 3
	case ActionOverview, ActionSuggestion:
		return 1
	default:
		return 0
	}
}

func quotaColumn(action string) (string, error) {
	switch action {
	case ActionScan:
		return "scan_count", nil
	case ActionOverview:
		return "overview_count", nil
	case ActionSuggestion:
		return "suggestion_count", nil
	default:
		return "", fmt.Errorf("unknown quota action: %q", action)
	}
}

// StatsService maintains the per-(user, day) aggregate row: AI usage
// counters, hydration and weight.
type StatsService struct {
	db *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// ensureRow creates the DailyStat row for (user, date) if it doesn't
// exist yet. Counters default to zero.
func (s *StatsService) ensureRow(ctx context.Context, userID uuid.UUID, date string) error {
	row := models.DailyStat{
		ID:     uuid.New(),
		UserID: userID,
		Date:   date,
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&row).Error
}

// ReserveQuota atomically increments the action counter for the day,
// failing with a QuotaError if the counter is already at its limit. The
// guarded UPDATE leaves no read-then-write window, so concurrent calls
// cannot overshoot the quota.
func (s *StatsService) ReserveQuota(ctx context.Context, userID uuid.UUID, date, action string) error {
	column, err := quotaColumn(action)
	if err != nil {
		return err
	}
	limit := QuotaLimit(action)

	if err := s.ensureRow(ctx, userID, date); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Model(&models.DailyStat{}).
		Where("user_id = ? AND date = ? AND "+column+" < ?", userID, date, limit).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		stat, err := s.Get(ctx, userID, date)
		if err != nil {
			return err
		}
		return &QuotaError{Action: action, Used: quotaUsed(stat, action), Limit: limit}
	}
	return nil
}

// ReleaseQuota undoes a reservation after the gated AI call failed, so
// failed calls never consume quota.
func (s *StatsService) ReleaseQuota(ctx context.Context, userID uuid.UUID, date, action string) error {
	column, err := quotaColumn(action)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Model(&models.DailyStat{}).
		Where("user_id = ? AND date = ? AND "+column+" > 0", userID, date).
		UpdateColumn(column, gorm.Expr(column+" - 1")).Error
}

func quotaUsed(stat *models.DailyStat, action string) int {
	switch action {
	case ActionScan:
		return stat.ScanCount
	case ActionOverview:
		return stat.OverviewCount
	case ActionSuggestion:
		return stat.SuggestionCount
	}
	return 0
}

// Get returns the DailyStat row for (user, date), or a zero-valued row
// when none exists. A missing row is a normal state, not an error.
func (s *StatsService) Get(ctx context.Context, userID uuid.UUID, date string) (*models.DailyStat, error) {
	var stat models.DailyStat
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&stat).Error
	if err == gorm.ErrRecordNotFound {
		return &models.DailyStat{UserID: userID, Date: date}, nil
	}
	if err != nil {
		return nil, err
	}
	return &stat, nil
}

// History returns the rows of the trailing N days, oldest first. Used for
// the weight trend view.
func (s *StatsService) History(ctx context.Context, userID uuid.UUID, days int) ([]models.DailyStat, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format("2006-01-02")
	var stats []models.DailyStat
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ?", userID, since).
		Order("date ASC").
		Find(&stats).Error
	return stats, err
}

// UpdateMetric upserts the row and sets only the provided fields. Water
// intake is clamped to zero; weight accepts any decimal.
func (s *StatsService) UpdateMetric(ctx context.Context, userID uuid.UUID, date string, waterIntake *int, weight *float64) (*models.DailyStat, error) {
	if err := s.ensureRow(ctx, userID, date); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if waterIntake != nil {
		water := *waterIntake
		if water < 0 {
			water = 0
		}
		updates["water_intake"] = water
	}
	if weight != nil {
		updates["weight"] = *weight
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).
			Model(&models.DailyStat{}).
			Where("user_id = ? AND date = ?", userID, date).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, userID, date)
}
