package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/quizshield/proctoring-service/internal/anticheat"
)

// EventType represents different types of proctoring alert events
type EventType string

const (
	EventHighRiskAttempt EventType = "proctoring.high_risk"
)

// AlertEvent is the envelope for all proctoring alert events
type AlertEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// HighRiskAttemptEvent is published when an attempt's computed suspicion
// score classifies as high risk
type HighRiskAttemptEvent struct {
	AttemptID         uint                `json:"attempt_id"`
	AssignmentID      uint                `json:"assignment_id"`
	StudentID         string              `json:"student_id"`
	AssignmentOwnerID string              `json:"assignment_owner_id"`
	SuspicionScore    int                 `json:"suspicion_score"`
	RiskLevel         anticheat.RiskLevel `json:"risk_level"`
	TriggeredRuleIDs  []string            `json:"triggered_rule_ids"`
	TotalEvents       int64               `json:"total_events"`
	ComputedAt        time.Time           `json:"computed_at"`
}

// NewHighRiskAttemptEvent wraps a high risk report in the alert envelope
func NewHighRiskAttemptEvent(data HighRiskAttemptEvent) *AlertEvent {
	return &AlertEvent{
		ID:        GenerateEventID(),
		Type:      EventHighRiskAttempt,
		Timestamp: time.Now(),
		Source:    "proctoring-service",
		Version:   "1.0",
		Data:      data,
	}
}

// GenerateEventID returns a unique identifier for an alert event
func GenerateEventID() string {
	return uuid.NewString()
}
