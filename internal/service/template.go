package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitbite/backend/internal/models"
	"github.com/fitbite/backend/internal/types"
)

// TemplateService stores workout shapes for replay. Templates carry set
// values but never completion flags.
type TemplateService struct {
	db      *gorm.DB
	workout *WorkoutService
}

func NewTemplateService(db *gorm.DB, workout *WorkoutService) *TemplateService {
	return &TemplateService{db: db, workout: workout}
}

func (s *TemplateService) Save(ctx context.Context, userID uuid.UUID, req *types.SaveTemplateRequest) (*models.WorkoutTemplate, error) {
	exercises := make(models.TemplateExerciseList, len(req.Exercises))
	for i, ex := range req.Exercises {
		sets := make(models.SetList, len(ex.Sets))
		for j, set := range ex.Sets {
			set.Completed = false
			sets[j] = set
		}
		ex.Sets = sets
		exercises[i] = ex
	}

	tmpl := models.WorkoutTemplate{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      req.Name,
		Exercises: exercises,
	}
	if err := s.db.WithContext(ctx).Create(&tmpl).Error; err != nil {
		return nil, err
	}
	return &tmpl, nil
}

func (s *TemplateService) List(ctx context.Context, userID uuid.UUID) ([]models.WorkoutTemplate, error) {
	var templates []models.WorkoutTemplate
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&templates).Error
	return templates, err
}

func (s *TemplateService) Delete(ctx context.Context, userID, templateID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", templateID, userID).
		Delete(&models.WorkoutTemplate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Load replays a template's exercises into the user's active session,
// creating one log per exercise.
func (s *TemplateService) Load(ctx context.Context, userID, templateID uuid.UUID) ([]models.WorkoutLog, error) {
	var tmpl models.WorkoutTemplate
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", templateID, userID).
		First(&tmpl).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	logs := make([]models.WorkoutLog, 0, len(tmpl.Exercises))
	for _, ex := range tmpl.Exercises {
		entry, err := s.workout.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{
			Exercise: ex.Exercise,
			Category: ex.Category,
			Sets:     ex.Sets,
		})
		if err != nil {
			return nil, err
		}
		logs = append(logs, *entry)
	}
	return logs, nil
}
