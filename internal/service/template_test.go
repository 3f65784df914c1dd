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

func TestTemplateService_SaveClearsCompletion(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	templates := service.NewTemplateService(db, workouts)
	userID := uuid.New()

	tmpl, err := templates.Save(context.Background(), userID, &types.SaveTemplateRequest{
		Name: "Push Day",
		Exercises: models.TemplateExerciseList{
			{
				Exercise: "Bench Press",
				Category: "chest",
				Sets: models.SetList{
					{Weight: "60", Reps: "10", Completed: true},
					{Weight: "65", Reps: "8", Completed: true},
				},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, tmpl.Exercises, 1)
	for _, set := range tmpl.Exercises[0].Sets {
		assert.False(t, set.Completed)
	}
	assert.Equal(t, "60", tmpl.Exercises[0].Sets[0].Weight)
}

func TestTemplateService_LoadReplaysIntoActiveSession(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	workouts := service.NewWorkoutService(db)
	templates := service.NewTemplateService(db, workouts)
	ctx := context.Background()
	userID := uuid.New()

	tmpl, err := templates.Save(ctx, userID, &types.SaveTemplateRequest{
		Name: "Leg Day",
		Exercises: models.TemplateExerciseList{
			{Exercise: "Squat", Category: "legs", Sets: models.SetList{{Weight: "80", Reps: "5"}}},
			{Exercise: "Leg Press", Category: "legs", Sets: models.SetList{{Weight: "120", Reps: "10"}}},
		},
	})
	require.NoError(t, err)

	logs, err := templates.Load(ctx, userID, tmpl.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	// All logs land in the same active session
	assert.Equal(t, logs[0].SessionID, logs[1].SessionID)
	session, err := workouts.GetOrCreateActiveSession(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, logs[0].SessionID)
}

func TestTemplateService_ListAndDelete(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	templates := service.NewTemplateService(db, service.NewWorkoutService(db))
	ctx := context.Background()
	userID := uuid.New()

	for _, name := range []string{"Zeta", "Alpha"} {
		_, err := templates.Save(ctx, userID, &types.SaveTemplateRequest{
			Name:      name,
			Exercises: models.TemplateExerciseList{{Exercise: "Squat"}},
		})
		require.NoError(t, err)
	}

	list, err := templates.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)

	assert.ErrorIs(t, templates.Delete(ctx, uuid.New(), list[0].ID), service.ErrNotFound)
	require.NoError(t, templates.Delete(ctx, userID, list[0].ID))

	list, err = templates.List(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTemplateService_LoadMissing(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	templates := service.NewTemplateService(db, service.NewWorkoutService(db))

	_, err := templates.Load(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
