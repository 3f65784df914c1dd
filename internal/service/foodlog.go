package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitbite/backend/internal/models"
	"github.com/fitbite/backend/internal/types"
)

// FoodLogService handles meal entries and their streak side effect.
type FoodLogService struct {
	db     *gorm.DB
	streak *StreakService
}

func NewFoodLogService(db *gorm.DB, streak *StreakService) *FoodLogService {
	return &FoodLogService{db: db, streak: streak}
}

func (s *FoodLogService) Create(ctx context.Context, userID uuid.UUID, req *types.CreateFoodLogRequest) (*models.FoodLog, error) {
	method := req.Method
	if method == "" {
		method = "manual"
	}

	entry := models.FoodLog{
		ID:       uuid.New(),
		UserID:   userID,
		FoodItem: req.FoodItem,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fats:     req.Fats,
		Method:   method,
		MealType: req.MealType,
		ImageURL: req.ImageURL,
		Date:     time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}

	// Best-effort: a streak failure must never fail the meal log.
	if err := s.streak.RecordMealLog(ctx, userID, req.LocalDate); err != nil {
		log.Printf("streak update failed for user %s: %v", userID, err)
	}

	return &entry, nil
}

func (s *FoodLogService) List(ctx context.Context, userID uuid.UUID) ([]models.FoodLog, error) {
	var logs []models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&logs).Error
	return logs, err
}

func (s *FoodLogService) Update(ctx context.Context, userID, logID uuid.UUID, req *types.UpdateFoodLogRequest) (*models.FoodLog, error) {
	updates := map[string]interface{}{
		"food_item": req.FoodItem,
		"calories":  req.Calories,
		"protein":   req.Protein,
		"carbs":     req.Carbs,
		"fats":      req.Fats,
	}
	if req.MealType != "" {
		updates["meal_type"] = req.MealType
	}

	res := s.db.WithContext(ctx).
		Model(&models.FoodLog{}).
		Where("id = ? AND user_id = ?", logID, userID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	var entry models.FoodLog
	if err := s.db.WithContext(ctx).First(&entry, "id = ?", logID).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *FoodLogService) Delete(ctx context.Context, userID, logID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", logID, userID).
		Delete(&models.FoodLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
