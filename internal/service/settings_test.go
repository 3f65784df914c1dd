package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitbite/backend/internal/service"
	"github.com/fitbite/backend/internal/testhelpers"
	"github.com/fitbite/backend/internal/types"
)

func TestSettingsService_GetMissing(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	settings := service.NewSettingsService(db)

	got, err := settings.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSettingsService_ManualOverrides(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	settings := service.NewSettingsService(db)
	ctx := context.Background()
	userID := uuid.New()

	got, err := settings.Update(ctx, userID, &types.UpdateSettingsRequest{
		DailyGoal:   1800,
		ProteinGoal: 140,
		Timezone:    "Europe/Berlin",
	})
	require.NoError(t, err)
	assert.Equal(t, 1800, got.DailyGoal)
	assert.Equal(t, 140, got.ProteinGoal)
	assert.Equal(t, "Europe/Berlin", got.Timezone)

	// Partial update keeps earlier values
	got, err = settings.Update(ctx, userID, &types.UpdateSettingsRequest{CarbsGoal: 200})
	require.NoError(t, err)
	assert.Equal(t, 1800, got.DailyGoal)
	assert.Equal(t, 200, got.CarbsGoal)
}

func TestSettingsService_ComputedMaintain(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	settings := service.NewSettingsService(db)
	userID := uuid.New()

	// BMR = 10*80 + 6.25*180 - 5*30 + 5 = 1780; TDEE = 1780*1.55 = 2759
	got, err := settings.Update(context.Background(), userID, &types.UpdateSettingsRequest{
		Age:      30,
		Weight:   80,
		Height:   180,
		Gender:   "male",
		Activity: "moderate",
		Goal:     "maintain",
	})
	require.NoError(t, err)
	assert.Equal(t, 2759, got.DailyGoal)
	// Maintain split: 30% protein, 35% carbs, 35% fats
	assert.Equal(t, 207, got.ProteinGoal) // 2759*0.3/4
	assert.Equal(t, 241, got.CarbsGoal)   // 2759*0.35/4
	assert.Equal(t, 107, got.FatsGoal)    // 2759*0.35/9
}

func TestSettingsService_ComputedLoseFemale(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	settings := service.NewSettingsService(db)
	userID := uuid.New()

	// BMR = 10*65 + 6.25*165 - 5*25 - 161 = 1395.25; TDEE = 1395.25*1.2 = 1674.3
	got, err := settings.Update(context.Background(), userID, &types.UpdateSettingsRequest{
		Age:      25,
		Weight:   65,
		Height:   165,
		Gender:   "female",
		Activity: "sedentary",
		Goal:     "lose",
	})
	require.NoError(t, err)
	assert.Equal(t, 1174, got.DailyGoal) // 1674.3 - 500
}

func TestSettingsService_TimeBasedTargetCapped(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	settings := service.NewSettingsService(db)
	userID := uuid.New()

	// Losing 10 kg in 30 days needs a far larger deficit than the floor
	// allows; the female cap of 1200 kicks in.
	targetDate := time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
	got, err := settings.Update(context.Background(), userID, &types.UpdateSettingsRequest{
		Age:        25,
		Weight:     70,
		Height:     165,
		Gender:     "female",
		Activity:   "sedentary",
		Goal:       "lose",
		GoalWeight: 60,
		TargetDate: targetDate,
	})
	require.NoError(t, err)
	assert.Equal(t, 1200, got.DailyGoal)
}

func TestSettingsService_CustomGoals(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	settings := service.NewSettingsService(db)
	userID := uuid.New()

	got, err := settings.Update(context.Background(), userID, &types.UpdateSettingsRequest{
		Age:            30,
		Weight:         80,
		Height:         180,
		Gender:         "male",
		Activity:       "moderate",
		Goal:           "custom",
		CustomCalories: 2500,
		CustomProtein:  180,
		CustomCarbs:    250,
		CustomFats:     80,
	})
	require.NoError(t, err)
	assert.Equal(t, 2500, got.DailyGoal)
	assert.Equal(t, 180, got.ProteinGoal)
	assert.Equal(t, 250, got.CarbsGoal)
	assert.Equal(t, 80, got.FatsGoal)
}
