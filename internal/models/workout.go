package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Workout session states.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
)

// SetEntry is a single set within a workout log. Weight and reps are kept
// as strings so the client can hold partially filled rows ("", "60", ...).
type SetEntry struct {
	Weight    string `json:"weight"`
	Reps      string `json:"reps"`
	Completed bool   `json:"completed"`
}

// SetList is a custom type for storing an ordered set sequence in JSONB.
type SetList []SetEntry

// Value implements the driver.Valuer interface
func (l SetList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *SetList) Scan(value interface{}) error {
	if value == nil {
		*l = SetList{}
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

// CompletedOnly returns the subsequence of sets marked completed, preserving
// order. Used when a session is finished to prune abandoned sets.
func (l SetList) CompletedOnly() SetList {
	out := make(SetList, 0, len(l))
	for _, s := range l {
		if s.Completed {
			out = append(out, s)
		}
	}
	return out
}

// WorkoutSession groups the workout logs of a single gym visit.
// At most one row with status "active" exists per user at any time.
type WorkoutSession struct {
	ID      uuid.UUID  `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID  uuid.UUID  `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Status  string     `gorm:"size:20;not null;default:'active'" json:"status"`
	EndedAt *time.Time `json:"ended_at"`
	// DurationSeconds is the wall-clock length of the session, stamped on
	// completion.
	DurationSeconds int `gorm:"not null;default:0" json:"duration_seconds"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkoutLog is one exercise entry within a session. Sets are mutated in
// place while the session is active; on finish, incomplete sets are pruned
// but the row itself is retained.
type WorkoutLog struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID       uuid.UUID `gorm:"type:varchar(36);not null;index" json:"user_id"`
	SessionID    uuid.UUID `gorm:"type:varchar(36);not null;index" json:"session_id"`
	ExerciseName string    `gorm:"size:100;not null" json:"exercise_name"`
	Category     string    `gorm:"size:50" json:"category"`
	Sets         SetList   `gorm:"type:jsonb;not null;default:'[]'" json:"sets"`
	Date         time.Time `gorm:"not null;index" json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
