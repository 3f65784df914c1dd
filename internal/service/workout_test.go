package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitbite/backend/internal/models"
	"github.com/fitbite/backend/internal/service"
	"github.com/fitbite/backend/internal/testhelpers"
	"github.com/fitbite/backend/internal/types"
)

func TestWorkoutService_ActiveSessionReuse(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	ctx := context.Background()
	userID := uuid.New()

	first, err := workouts.GetOrCreateActiveSession(ctx, userID)
	require.NoError(t, err)
	second, err := workouts.GetOrCreateActiveSession(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// Separate users get separate sessions
	other, err := workouts.GetOrCreateActiveSession(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestWorkoutService_AddExerciseSeedsEmptySet(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	ctx := context.Background()
	userID := uuid.New()

	entry, err := workouts.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{
		Exercise: "Squat",
		Category: "legs",
	})
	require.NoError(t, err)
	require.Len(t, entry.Sets, 1)
	assert.False(t, entry.Sets[0].Completed)
	assert.Empty(t, entry.Sets[0].Weight)

	// Exactly one session and one log came out of the call
	var sessions, logs int64
	db.Model(&models.WorkoutSession{}).Where("user_id = ?", userID).Count(&sessions)
	db.Model(&models.WorkoutLog{}).Where("user_id = ?", userID).Count(&logs)
	assert.Equal(t, int64(1), sessions)
	assert.Equal(t, int64(1), logs)
}

func TestWorkoutService_AddExerciseSeedsFromHistory(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	ctx := context.Background()
	userID := uuid.New()

	// Complete a session with recorded sets
	entry, err := workouts.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{
		Exercise: "Bench Press",
		Sets: models.SetList{
			{Weight: "60", Reps: "10", Completed: true},
			{Weight: "65", Reps: "8", Completed: true},
		},
	})
	require.NoError(t, err)
	require.NoError(t, workouts.Finish(ctx, userID, []uuid.UUID{entry.ID}, 1800))

	// The next session pre-fills from history, with completion cleared
	next, err := workouts.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{
		Exercise: "Bench Press",
	})
	require.NoError(t, err)
	require.Len(t, next.Sets, 2)
	assert.Equal(t, "60", next.Sets[0].Weight)
	assert.Equal(t, "10", next.Sets[0].Reps)
	assert.False(t, next.Sets[0].Completed)
	assert.False(t, next.Sets[1].Completed)
}

func TestWorkoutService_FinishPrunesIncompleteSets(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	ctx := context.Background()
	userID := uuid.New()

	entry, err := workouts.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{
		Exercise: "Deadlift",
		Sets: models.SetList{
			{Weight: "100", Reps: "5", Completed: true},
			{Weight: "110", Reps: "3", Completed: false},
			{Weight: "100", Reps: "5", Completed: true},
		},
	})
	require.NoError(t, err)

	require.NoError(t, workouts.Finish(ctx, userID, []uuid.UUID{entry.ID}, 2400))

	var saved models.WorkoutLog
	require.NoError(t, db.First(&saved, "id = ?", entry.ID).Error)
	require.Len(t, saved.Sets, 2)
	assert.Equal(t, "100", saved.Sets[0].Weight)
	assert.Equal(t, "100", saved.Sets[1].Weight)

	var session models.WorkoutSession
	require.NoError(t, db.First(&session, "id = ?", entry.SessionID).Error)
	assert.Equal(t, models.SessionCompleted, session.Status)
	assert.Equal(t, 2400, session.DurationSeconds)
	assert.NotNil(t, session.EndedAt)
}

func TestWorkoutService_FinishIsIdempotent(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	ctx := context.Background()
	userID := uuid.New()

	entry, err := workouts.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{
		Exercise: "Row",
		Sets:     models.SetList{{Weight: "50", Reps: "12", Completed: true}},
	})
	require.NoError(t, err)

	require.NoError(t, workouts.Finish(ctx, userID, []uuid.UUID{entry.ID}, 600))
	// Retry after the session is already closed
	require.NoError(t, workouts.Finish(ctx, userID, []uuid.UUID{entry.ID}, 600))

	var saved models.WorkoutLog
	require.NoError(t, db.First(&saved, "id = ?", entry.ID).Error)
	assert.Len(t, saved.Sets, 1)
}

func TestWorkoutService_FinishSkipsUnownedLogs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	ctx := context.Background()
	userID := uuid.New()
	victimID := uuid.New()

	victim, err := workouts.AddExercise(ctx, victimID, &types.CreateWorkoutLogRequest{
		Exercise: "Curl",
		Sets:     models.SetList{{Weight: "20", Reps: "10", Completed: false}},
	})
	require.NoError(t, err)

	require.NoError(t, workouts.Finish(ctx, userID, []uuid.UUID{victim.ID}, 60))

	// The victim's incomplete set survived
	var saved models.WorkoutLog
	require.NoError(t, db.First(&saved, "id = ?", victim.ID).Error)
	assert.Len(t, saved.Sets, 1)

	// And their session is still active
	var session models.WorkoutSession
	require.NoError(t, db.First(&session, "id = ?", victim.SessionID).Error)
	assert.Equal(t, models.SessionActive, session.Status)
}

func TestWorkoutService_DiscardRemovesSession(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	ctx := context.Background()
	userID := uuid.New()

	first, err := workouts.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{Exercise: "Squat"})
	require.NoError(t, err)
	_, err = workouts.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{Exercise: "Lunge"})
	require.NoError(t, err)

	require.NoError(t, workouts.Discard(ctx, userID, []uuid.UUID{first.ID}))

	var count int64
	db.Model(&models.WorkoutLog{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(0), count)

	// No orphaned active session remains
	db.Model(&models.WorkoutSession{}).Where("user_id = ?", userID).Count(&count)
	assert.Equal(t, int64(0), count)

	// Discarding again is harmless
	require.NoError(t, workouts.Discard(ctx, userID, nil))
}

func TestWorkoutService_UpdateSets(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	ctx := context.Background()
	userID := uuid.New()

	entry, err := workouts.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{Exercise: "Press"})
	require.NoError(t, err)

	newSets := models.SetList{
		{Weight: "40", Reps: "8", Completed: true},
		{Weight: "45", Reps: "6", Completed: false},
	}
	updated, err := workouts.UpdateSets(ctx, userID, entry.ID, newSets)
	require.NoError(t, err)
	assert.Equal(t, newSets, updated.Sets)

	_, err = workouts.UpdateSets(ctx, uuid.New(), entry.ID, newSets)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestWorkoutService_ListLogs(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	ctx := context.Background()
	userID := uuid.New()

	// No active session yet: empty, not an error
	logs, err := workouts.ListLogs(ctx, userID, "", "")
	require.NoError(t, err)
	assert.Empty(t, logs)

	entry, err := workouts.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{
		Exercise: "Squat",
		Sets:     models.SetList{{Weight: "80", Reps: "5", Completed: true}},
	})
	require.NoError(t, err)

	// Default view shows the active session
	logs, err = workouts.ListLogs(ctx, userID, "", "")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.SessionActive, logs[0].Status)

	require.NoError(t, workouts.Finish(ctx, userID, []uuid.UUID{entry.ID}, 900))

	// Completed filter picks it up with the session duration
	logs, err = workouts.ListLogs(ctx, userID, "", models.SessionCompleted)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, models.SessionCompleted, logs[0].Status)
	assert.Equal(t, 900, logs[0].DurationSeconds)

	// Date filter finds today's log
	logs, err = workouts.ListLogs(ctx, userID, entry.Date.Format("2006-01-02"), "")
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestWorkoutService_LastCompleted(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	ctx := context.Background()
	userID := uuid.New()

	// Nothing completed yet
	last, err := workouts.LastCompleted(ctx, userID, "Squat")
	require.NoError(t, err)
	assert.Nil(t, last)

	// An active-session log does not count as history
	entry, err := workouts.AddExercise(ctx, userID, &types.CreateWorkoutLogRequest{
		Exercise: "Squat",
		Sets:     models.SetList{{Weight: "80", Reps: "5", Completed: true}},
	})
	require.NoError(t, err)

	last, err = workouts.LastCompleted(ctx, userID, "Squat")
	require.NoError(t, err)
	assert.Nil(t, last)

	require.NoError(t, workouts.Finish(ctx, userID, []uuid.UUID{entry.ID}, 300))

	last, err = workouts.LastCompleted(ctx, userID, "Squat")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, "80", last.Sets[0].Weight)
}
