package domain

import (
	"time"

	"github.com/ynmsafety/ynmops/internal/dedupe"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	// StatusCarriedForward is never stored. It is reported for pending tasks
	// whose date has passed.
	StatusCarriedForward Status = "carried_forward"
)

type StatusEntry struct {
	StatusText string    `json:"statusText"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Task struct {
	ID            int64                            `gorm:"primaryKey"`
	AssignedTo    string                           `gorm:"type:text;not null;index"`
	Date          time.Time                        `gorm:"not null;index"`
	Title         string                           `gorm:"type:text;not null"`
	Description   string                           `gorm:"type:text;not null;default:''"`
	TaskText      string                           `gorm:"type:text;not null"`
	Status        Status                           `gorm:"type:text;not null;default:'pending'"`
	StatusHistory datatypes.JSONSlice[StatusEntry] `gorm:"not null"`
	Fingerprint   string                           `gorm:"type:text;not null;uniqueIndex:ux_tasks_fingerprint"`
	CreatedAt     time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Task) TableName() string { return "tasks" }

// DedupeFields is the view of t compared by the task duplicate policy.
func (t Task) DedupeFields() dedupe.Fields {
	return dedupe.Fields{
		dedupe.FieldTitle:      dedupe.Text(t.Title),
		dedupe.FieldAssignedTo: dedupe.Text(t.AssignedTo),
		dedupe.FieldDate:       dedupe.Date(t.Date),
	}
}

func (t Task) ComputeFingerprint() string {
	return dedupe.Fingerprint(t.Title, t.AssignedTo, dedupe.DayKey(t.Date))
}

// EffectiveStatus reports the status as of today.
func (t Task) EffectiveStatus(today time.Time) Status {
	if t.Status != StatusPending {
		return t.Status
	}
	if dedupe.DayKey(t.Date) < dedupe.DayKey(today) {
		return StatusCarriedForward
	}
	return t.Status
}
