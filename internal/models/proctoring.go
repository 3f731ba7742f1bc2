package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProctoringEvent is one client-reported proctoring signal for a quiz
// attempt. The event type is stored exactly as the browser reported it;
// canonicalization happens at scoring time so legacy client versions can
// keep emitting their old spellings.
type ProctoringEvent struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	AttemptID uint   `json:"attempt_id" gorm:"not null;index"`
	EventType string `json:"event_type" gorm:"not null;size:100;index"`

	// Opaque client payload, never trusted or inspected server-side
	Metadata datatypes.JSON `json:"metadata" gorm:"type:jsonb"`

	// Client-reported time of the signal; CreatedAt is the server receipt time
	OccurredAt time.Time `json:"occurred_at"`

	// Request context
	UserAgent string `json:"user_agent" gorm:"type:text"`
	IPAddress string `json:"ip_address" gorm:"size:45"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`

	// Relations
	Attempt QuizAttempt `json:"-" gorm:"foreignKey:AttemptID"`
}

func (ProctoringEvent) TableName() string {
	return "proctoring_events"
}
