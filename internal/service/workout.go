package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fitbite/backend/internal/models"
	"github.com/fitbite/backend/internal/types"
)

// WorkoutService owns the session lifecycle: exercise entries are grouped
// into at most one active session per user, which transitions one-way to
// completed when the workout is finished.
type WorkoutService struct {
	db *gorm.DB
}

func NewWorkoutService(db *gorm.DB) *WorkoutService {
	return &WorkoutService{db: db}
}

// WorkoutLogView is a log enriched with its session's status and duration,
// the shape history and active-workout views consume.
type WorkoutLogView struct {
	models.WorkoutLog
	Status          string `json:"status"`
	DurationSeconds int    `json:"duration_seconds"`
}

// GetOrCreateActiveSession finds the user's active session or starts a new
// one. The partial unique index on (user_id) WHERE status='active' turns
// the find-or-create race into a constraint violation, which is resolved
// by re-reading the winner's row.
func (s *WorkoutService) GetOrCreateActiveSession(ctx context.Context, userID uuid.UUID) (*models.WorkoutSession, error) {
	var session models.WorkoutSession
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.SessionActive).
		First(&session).Error
	if err == nil {
		return &session, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	session = models.WorkoutSession{
		ID:     uuid.New(),
		UserID: userID,
		Status: models.SessionActive,
	}
	if createErr := s.db.WithContext(ctx).Create(&session).Error; createErr != nil {
		// Lost the race: another request created the active session first.
		var existing models.WorkoutSession
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND status = ?", userID, models.SessionActive).
			First(&existing).Error; err == nil {
			return &existing, nil
		}
		return nil, createErr
	}
	return &session, nil
}

// AddExercise creates a log in the user's active session, starting one if
// needed. When the client sends no sets, the most recent completed log of
// the same exercise seeds the weights and reps; otherwise one empty set.
func (s *WorkoutService) AddExercise(ctx context.Context, userID uuid.UUID, req *types.CreateWorkoutLogRequest) (*models.WorkoutLog, error) {
	session, err := s.GetOrCreateActiveSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	sets := req.Sets
	if len(sets) == 0 {
		last, err := s.LastCompleted(ctx, userID, req.Exercise)
		if err != nil {
			return nil, err
		}
		if last != nil && len(last.Sets) > 0 {
			sets = make(models.SetList, len(last.Sets))
			for i, entry := range last.Sets {
				entry.Completed = false
				sets[i] = entry
			}
		} else {
			sets = models.SetList{{Weight: "", Reps: "", Completed: false}}
		}
	}

	entry := models.WorkoutLog{
		ID:           uuid.New(),
		UserID:       userID,
		SessionID:    session.ID,
		ExerciseName: req.Exercise,
		Category:     req.Category,
		Sets:         sets,
		Date:         time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateSets replaces the full set sequence of a log owned by the caller.
// Last-writer-wins on concurrent edits.
func (s *WorkoutService) UpdateSets(ctx context.Context, userID, logID uuid.UUID, sets models.SetList) (*models.WorkoutLog, error) {
	var entry models.WorkoutLog
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", logID, userID).
		First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Model(&entry).
		UpdateColumn("sets", sets).Error; err != nil {
		return nil, err
	}
	entry.Sets = sets
	return &entry, nil
}

// Finish prunes incomplete sets from the given logs and closes the active
// session, stamping its end time and duration. Each log's pruning is
// independent and idempotent, so a retry after partial completion is safe;
// re-finishing with no active session is a no-op.
func (s *WorkoutService) Finish(ctx context.Context, userID uuid.UUID, logIDs []uuid.UUID, durationSeconds int) error {
	for _, id := range logIDs {
		var entry models.WorkoutLog
		err := s.db.WithContext(ctx).
			Where("id = ? AND user_id = ?", id, userID).
			First(&entry).Error
		if err == gorm.ErrRecordNotFound {
			continue // not owned, skip
		}
		if err != nil {
			return err
		}

		if err := s.db.WithContext(ctx).
			Model(&entry).
			UpdateColumn("sets", entry.Sets.CompletedOnly()).Error; err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	return s.db.WithContext(ctx).
		Model(&models.WorkoutSession{}).
		Where("user_id = ? AND status = ?", userID, models.SessionActive).
		Updates(map[string]interface{}{
			"status":           models.SessionCompleted,
			"ended_at":         now,
			"duration_seconds": durationSeconds,
		}).Error
}

// Discard deletes the given logs, any remaining logs of the active
// session, and the active session row itself. No orphaned active sessions
// are left behind.
func (s *WorkoutService) Discard(ctx context.Context, userID uuid.UUID, logIDs []uuid.UUID) error {
	if len(logIDs) > 0 {
		if err := s.db.WithContext(ctx).
			Where("id IN ? AND user_id = ?", logIDs, userID).
			Delete(&models.WorkoutLog{}).Error; err != nil {
			return err
		}
	}

	var session models.WorkoutSession
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.SessionActive).
		First(&session).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", session.ID, userID).
		Delete(&models.WorkoutLog{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&session).Error
}

// DeleteLog removes a single log owned by the caller.
func (s *WorkoutService) DeleteLog(ctx context.Context, userID, logID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", logID, userID).
		Delete(&models.WorkoutLog{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLogs filters the user's logs by exact date, or by session status.
// With neither given, it returns the current active session's logs; no
// active session yields an empty result, not an error.
func (s *WorkoutService) ListLogs(ctx context.Context, userID uuid.UUID, date, status string) ([]WorkoutLogView, error) {
	var logs []models.WorkoutLog

	switch {
	case date != "":
		dayStart, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, err
		}
		dayEnd := dayStart.AddDate(0, 0, 1)
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND date >= ? AND date < ?", userID, dayStart, dayEnd).
			Order("date ASC").
			Find(&logs).Error; err != nil {
			return nil, err
		}

	case status == "" || status == models.SessionActive:
		var session models.WorkoutSession
		err := s.db.WithContext(ctx).
			Where("user_id = ? AND status = ?", userID, models.SessionActive).
			First(&session).Error
		if err == gorm.ErrRecordNotFound {
			return []WorkoutLogView{}, nil
		}
		if err != nil {
			return nil, err
		}
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND session_id = ?", userID, session.ID).
			Order("date ASC").
			Find(&logs).Error; err != nil {
			return nil, err
		}

	default:
		var sessionIDs []uuid.UUID
		if err := s.db.WithContext(ctx).
			Model(&models.WorkoutSession{}).
			Where("user_id = ? AND status = ?", userID, status).
			Pluck("id", &sessionIDs).Error; err != nil {
			return nil, err
		}
		if len(sessionIDs) == 0 {
			return []WorkoutLogView{}, nil
		}
		if err := s.db.WithContext(ctx).
			Where("user_id = ? AND session_id IN ?", userID, sessionIDs).
			Order("date ASC").
			Find(&logs).Error; err != nil {
			return nil, err
		}
	}

	return s.enrich(ctx, logs)
}

// LastCompleted returns the most recent log of the given exercise from a
// completed session, or nil when the exercise has no history.
func (s *WorkoutService) LastCompleted(ctx context.Context, userID uuid.UUID, exerciseName string) (*models.WorkoutLog, error) {
	var entry models.WorkoutLog
	err := s.db.WithContext(ctx).
		Joins("JOIN workout_sessions ON workout_sessions.id = workout_logs.session_id").
		Where("workout_logs.user_id = ? AND workout_logs.exercise_name = ? AND workout_sessions.status = ?",
			userID, exerciseName, models.SessionCompleted).
		Order("workout_logs.date DESC").
		First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// enrich maps each log to its session's status and duration.
func (s *WorkoutService) enrich(ctx context.Context, logs []models.WorkoutLog) ([]WorkoutLogView, error) {
	views := make([]WorkoutLogView, 0, len(logs))
	if len(logs) == 0 {
		return views, nil
	}

	idSet := map[uuid.UUID]struct{}{}
	for _, lg := range logs {
		idSet[lg.SessionID] = struct{}{}
	}
	ids := make([]uuid.UUID, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var sessions []models.WorkoutSession
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&sessions).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]models.WorkoutSession, len(sessions))
	for _, sess := range sessions {
		byID[sess.ID] = sess
	}

	for _, lg := range logs {
		view := WorkoutLogView{WorkoutLog: lg}
		if sess, ok := byID[lg.SessionID]; ok {
			view.Status = sess.Status
			view.DurationSeconds = sess.DurationSeconds
		}
		views = append(views, view)
	}
	return views, nil
}
