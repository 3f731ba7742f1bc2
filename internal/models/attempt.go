package models

import (
	"time"

	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
)

// QuizAttempt is the scope proctoring events are keyed by: one student's
// numbered attempt at one quiz assignment. AssignmentOwnerID is denormalized
// onto the attempt at start time so report authorization does not need a
// cross-service lookup.
type QuizAttempt struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	AssignmentID uint `json:"assignment_id" gorm:"not null;index:idx_attempt_scope"`

	StudentID         string `json:"student_id" gorm:"not null;size:255;index:idx_attempt_scope"`
	AssignmentOwnerID string `json:"assignment_owner_id" gorm:"not null;size:255;index"`

	AttemptNumber int           `json:"attempt_number" gorm:"not null;default:1;index:idx_attempt_scope"`
	Status        AttemptStatus `json:"status" gorm:"not null;default:in_progress;index"`

	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Events []ProctoringEvent `json:"events,omitempty" gorm:"foreignKey:AttemptID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// IsActive reports whether the attempt still accepts proctoring events
func (a *QuizAttempt) IsActive() bool {
	return a.Status == AttemptInProgress
}
