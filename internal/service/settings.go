package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitbite/backend/internal/models"
	"github.com/fitbite/backend/internal/types"
)

var activityFactors = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
	"extra":     1.9,
}

var goalAdjustments = map[string]float64{
	"lose":     -500,
	"maintain": 0,
	"gain":     300,
}

// macroRatios holds the protein/carbs/fats calorie split for a goal.
type macroRatios struct {
	p, c, f float64
}

func ratiosFor(goal string) macroRatios {
	switch goal {
	case "lose":
		// High protein for satiety and muscle preservation
		return macroRatios{p: 0.4, c: 0.3, f: 0.3}
	case "gain":
		// Higher carbs for training energy
		return macroRatios{p: 0.3, c: 0.45, f: 0.25}
	default:
		return macroRatios{p: 0.3, c: 0.35, f: 0.35}
	}
}

// SettingsService manages nutrition targets. Targets are either taken
// verbatim or derived from profile data via the Mifflin-St Jeor equation.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the user's settings row, or nil when none exists yet (the
// caller treats that as a new user with defaults).
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update upserts the settings row. When age, weight and height are all
// present the targets are computed from them; otherwise the provided
// values are applied as manual overrides.
func (s *SettingsService) Update(ctx context.Context, userID uuid.UUID, req *types.UpdateSettingsRequest) (*models.UserSettings, error) {
	updates := map[string]interface{}{}

	if req.Age > 0 && req.Weight > 0 && req.Height > 0 {
		if req.Goal == "custom" {
			updates["daily_goal"] = req.CustomCalories
			updates["protein_goal"] = req.CustomProtein
			updates["carbs_goal"] = req.CustomCarbs
			updates["fats_goal"] = req.CustomFats
		} else {
			target := computeTargetCalories(req)
			ratios := ratiosFor(req.Goal)
			updates["daily_goal"] = target
			updates["protein_goal"] = int(math.Round(float64(target) * ratios.p / 4))
			updates["carbs_goal"] = int(math.Round(float64(target) * ratios.c / 4))
			updates["fats_goal"] = int(math.Round(float64(target) * ratios.f / 9))
		}
	} else {
		if req.DailyGoal > 0 {
			updates["daily_goal"] = req.DailyGoal
		}
		if req.ProteinGoal > 0 {
			updates["protein_goal"] = req.ProteinGoal
		}
		if req.CarbsGoal > 0 {
			updates["carbs_goal"] = req.CarbsGoal
		}
		if req.FatsGoal > 0 {
			updates["fats_goal"] = req.FatsGoal
		}
	}
	if req.Timezone != "" {
		updates["timezone"] = req.Timezone
	}

	row := models.UserSettings{
		ID:        uuid.New(),
		UserID:    userID,
		DailyGoal: 2000,
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row).Error; err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).
			Model(&models.UserSettings{}).
			Where("user_id = ?", userID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, userID)
}

// computeTargetCalories derives a daily calorie target from profile data:
// Mifflin-St Jeor BMR, scaled by activity, adjusted for the goal. When a
// goal weight and target date are given, the adjustment is spread over the
// remaining days instead, with per-gender floor caps.
func computeTargetCalories(req *types.UpdateSettingsRequest) int {
	// Weight in kg, height in cm
	bmr := 10*req.Weight + 6.25*req.Height - 5*float64(req.Age)
	if req.Gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	factor, ok := activityFactors[req.Activity]
	if !ok {
		factor = 1.2
	}
	tdee := bmr * factor

	target := int(math.Round(tdee + goalAdjustments[req.Goal]))

	if (req.Goal == "lose" || req.Goal == "gain") && req.GoalWeight > 0 && req.TargetDate != "" {
		if targetDate, err := time.Parse("2006-01-02", req.TargetDate); err == nil {
			days := int(math.Ceil(time.Until(targetDate).Hours() / 24))
			if days > 0 {
				// 1 kg of body fat is roughly 7700 kcal
				totalDiff := (req.Weight - req.GoalWeight) * 7700
				daily := math.Round(totalDiff / float64(days))
				target = int(math.Round(tdee - daily))

				if req.Gender == "female" && target < 1200 {
					target = 1200
				}
				if req.Gender == "male" && target < 1500 {
					target = 1500
				}
			}
		}
	}

	return target
}
