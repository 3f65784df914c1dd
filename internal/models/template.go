package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TemplateExercise is the replayable shape of one exercise in a template.
// Set values are carried over but completion flags are always false.
type TemplateExercise struct {
	Exercise string  `json:"exercise"`
	Category string  `json:"category"`
	Sets     SetList `json:"sets"`
}

// TemplateExerciseList stores the ordered exercise list in JSONB.
type TemplateExerciseList []TemplateExercise

// Value implements the driver.Valuer interface
func (l TemplateExerciseList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *TemplateExerciseList) Scan(value interface{}) error {
	if value == nil {
		*l = TemplateExerciseList{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// WorkoutTemplate is a saved workout shape used to seed new sessions.
type WorkoutTemplate struct {
	ID        uuid.UUID            `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID            `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name      string               `gorm:"size:100;not null" json:"name"`
	Exercises TemplateExerciseList `gorm:"type:jsonb;not null;default:'[]'" json:"exercises"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
