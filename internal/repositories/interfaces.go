package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/quizshield/proctoring-service/internal/models"
	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type EventFilters struct {
	EventType *string    `json:"event_type"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

type AttemptFilters struct {
	Status       *models.AttemptStatus `json:"status"`
	AssignmentID *uint                 `json:"assignment_id"`
	StudentID    *string               `json:"student_id"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// AttemptRepository handles quiz attempt rows
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.QuizAttempt) error
	GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error)
	GetByScope(ctx context.Context, assignmentID uint, studentID string, attemptNumber int) (*models.QuizAttempt, error)
	List(ctx context.Context, filters AttemptFilters) ([]*models.QuizAttempt, int64, error)
	UpdateStatus(ctx context.Context, id uint, status models.AttemptStatus, submittedAt *time.Time) error
	GetNextAttemptNumber(ctx context.Context, assignmentID uint, studentID string) (int, error)
}

// EventRepository handles persisted proctoring events
type EventRepository interface {
	CreateBatch(ctx context.Context, events []*models.ProctoringEvent) error
	GetByAttempt(ctx context.Context, attemptID uint, filters EventFilters) ([]*models.ProctoringEvent, int64, error)
	CountByAttempt(ctx context.Context, attemptID uint) (int64, error)
}

// Repository aggregates all repositories behind one handle
type Repository interface {
	Attempt() AttemptRepository
	Event() EventRepository
	Ping(ctx context.Context) error
	Close() error
}

// IsNotFoundError reports whether err is the storage layer's missing-row error
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
