package models

import (
	"time"

	"github.com/google/uuid"
)

// FoodLog is a single meal entry. No cross-entity invariants beyond
// ownership; mutable via edit, deletable.
type FoodLog struct {
	ID       uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID   uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	FoodItem string    `gorm:"size:255;not null" json:"food_item"`
	Calories float64   `gorm:"type:float" json:"calories"`
	Protein  float64   `gorm:"type:float" json:"protein"`
	Carbs    float64   `gorm:"type:float" json:"carbs"`
	Fats     float64   `gorm:"type:float" json:"fats"`
	// Method is "manual" or "ai-scan".
	Method   string    `gorm:"size:20;not null;default:'manual'" json:"method"`
	MealType string    `gorm:"size:20" json:"meal_type"`
	ImageURL string    `gorm:"size:255" json:"image_url"`
	Date     time.Time `gorm:"not null;index" json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
