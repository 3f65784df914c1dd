package types

import (
	"github.com/google/uuid"

	"github.com/fitbite/backend/internal/models"
)

// Auth

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Food logs

type CreateFoodLogRequest struct {
	FoodItem string  `json:"food_item" binding:"required"`
	Calories float64 `json:"calories" binding:"required,gte=0"`
	Protein  float64 `json:"protein" binding:"gte=0"`
	Carbs    float64 `json:"carbs" binding:"gte=0"`
	Fats     float64 `json:"fats" binding:"gte=0"`
	Method   string  `json:"method" binding:"omitempty,oneof=manual ai-scan"`
	MealType string  `json:"meal_type"`
	ImageURL string  `json:"image_url"`
	// LocalDate is the caller's calendar day (YYYY-MM-DD), resolved once at
	// the request boundary and threaded through streak bookkeeping.
	LocalDate string `json:"local_date" binding:"omitempty,datetime=2006-01-02"`
}

type UpdateFoodLogRequest struct {
	FoodItem string  `json:"food_item" binding:"required"`
	Calories float64 `json:"calories" binding:"required,gte=0"`
	Protein  float64 `json:"protein" binding:"gte=0"`
	Carbs    float64 `json:"carbs" binding:"gte=0"`
	Fats     float64 `json:"fats" binding:"gte=0"`
	MealType string  `json:"meal_type"`
}

// Daily stats

type UpdateDailyMetricRequest struct {
	Date        string   `json:"date" binding:"required,datetime=2006-01-02"`
	WaterIntake *int     `json:"water_intake"`
	Weight      *float64 `json:"weight"`
}

// Workouts

type CreateWorkoutLogRequest struct {
	Exercise string         `json:"exercise" binding:"required"`
	Category string         `json:"category"`
	Sets     models.SetList `json:"sets"`
}

type UpdateSetsRequest struct {
	Sets models.SetList `json:"sets" binding:"required"`
}

type FinishWorkoutRequest struct {
	IDs      []uuid.UUID `json:"ids"`
	Duration int         `json:"duration" binding:"gte=0"`
}

type DiscardWorkoutRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// Templates

type SaveTemplateRequest struct {
	Name      string                      `json:"name" binding:"required"`
	Exercises models.TemplateExerciseList `json:"exercises" binding:"required"`
}

// Settings

type UpdateSettingsRequest struct {
	// Raw profile data: when age/weight/height are all present, targets are
	// computed from them instead of taken verbatim.
	Age      int     `json:"age"`
	Weight   float64 `json:"weight"`
	Height   float64 `json:"height"`
	Gender   string  `json:"gender" binding:"omitempty,oneof=male female"`
	Activity string  `json:"activity" binding:"omitempty,oneof=sedentary light moderate active extra"`
	Goal     string  `json:"goal" binding:"omitempty,oneof=lose maintain gain custom"`

	GoalWeight float64 `json:"goal_weight"`
	TargetDate string  `json:"target_date" binding:"omitempty,datetime=2006-01-02"`

	CustomCalories int `json:"custom_calories"`
	CustomProtein  int `json:"custom_protein"`
	CustomCarbs    int `json:"custom_carbs"`
	CustomFats     int `json:"custom_fats"`

	// Manual overrides, applied when no profile data is given.
	DailyGoal   int    `json:"daily_goal"`
	ProteinGoal int    `json:"protein_goal"`
	CarbsGoal   int    `json:"carbs_goal"`
	FatsGoal    int    `json:"fats_goal"`
	Timezone    string `json:"timezone"`
}

// AI

type AnalyzeImageRequest struct {
	Base64Data string `json:"base64_data" binding:"required"`
	MimeType   string `json:"mime_type"`
	LocalDate  string `json:"local_date" binding:"omitempty,datetime=2006-01-02"`
}

type GenerateTextRequest struct {
	// Kind selects the prompt: "suggestion" or "overview".
	Kind          string `json:"kind" binding:"required,oneof=suggestion overview"`
	History       string `json:"history"`
	DailyGoal     int    `json:"daily_goal"`
	Remaining     int    `json:"remaining"`
	CaloriesToday int    `json:"calories_today"`
	LocalDate     string `json:"local_date" binding:"omitempty,datetime=2006-01-02"`
}
