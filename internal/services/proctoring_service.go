package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizshield/proctoring-service/internal/cache"
	"github.com/quizshield/proctoring-service/internal/models"
	"github.com/quizshield/proctoring-service/internal/repositories"
	"github.com/quizshield/proctoring-service/internal/validator"
	"gorm.io/datatypes"
)

// Upper bound on events accepted in a single ingestion request
const maxEventsPerBatch = 100

// ProctoringService ingests client-reported proctoring events and serves the
// paginated event listing for teachers. Event types are stored raw; unknown
// types are accepted so new client instrumentation never needs a server
// deployment to start reporting.
type ProctoringService interface {
	IngestEvents(ctx context.Context, attemptID uint, req *IngestEventsRequest, studentID string, reqCtx RequestContext) (*IngestResult, error)
	ListEvents(ctx context.Context, attemptID uint, filters repositories.EventFilters, userID string, role models.UserRole) ([]*models.ProctoringEvent, int64, error)
}

// RequestContext carries request metadata recorded alongside events
type RequestContext struct {
	UserAgent string
	IPAddress string
}

type EventInput struct {
	EventType  string          `json:"event_type" validate:"required,max=100"`
	OccurredAt time.Time       `json:"occurred_at"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

type IngestEventsRequest struct {
	Events []EventInput `json:"events" validate:"required,min=1,max=100,dive"`
}

type IngestResult struct {
	AttemptID    uint  `json:"attempt_id"`
	StoredEvents int   `json:"stored_events"`
	TotalEvents  int64 `json:"total_events"`
}

type proctoringService struct {
	repo       repositories.Repository
	cache      cache.CacheService
	logger     *slog.Logger
	validator  *validator.Validator
	queryLimit int
}

func NewProctoringService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	logger *slog.Logger,
	validator *validator.Validator,
	queryLimit int,
) ProctoringService {
	return &proctoringService{
		repo:       repo,
		cache:      cacheService,
		logger:     logger,
		validator:  validator,
		queryLimit: queryLimit,
	}
}

func (s *proctoringService) IngestEvents(ctx context.Context, attemptID uint, req *IngestEventsRequest, studentID string, reqCtx RequestContext) (*IngestResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if attempt.StudentID != studentID {
		return nil, NewPermissionError(studentID, attemptID, "attempt", "report_events", "not owned by student")
	}

	if !attempt.IsActive() {
		return nil, ErrAttemptNotActive
	}

	now := time.Now()
	events := make([]*models.ProctoringEvent, 0, len(req.Events))
	for _, input := range req.Events {
		occurredAt := input.OccurredAt
		if occurredAt.IsZero() {
			occurredAt = now
		}

		events = append(events, &models.ProctoringEvent{
			AttemptID:  attemptID,
			EventType:  input.EventType,
			Metadata:   datatypes.JSON(input.Metadata),
			OccurredAt: occurredAt,
			UserAgent:  reqCtx.UserAgent,
			IPAddress:  reqCtx.IPAddress,
		})
	}

	if err := s.repo.Event().CreateBatch(ctx, events); err != nil {
		return nil, fmt.Errorf("failed to store events: %w", err)
	}

	// New events invalidate any cached report for this attempt
	if err := s.cache.Delete(ctx, reportCacheKey(attemptID)); err != nil {
		s.logger.Warn("Failed to invalidate report cache",
			"attempt_id", attemptID,
			"error", err)
	}

	total, err := s.repo.Event().CountByAttempt(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	s.logger.Info("Proctoring events ingested",
		"attempt_id", attemptID,
		"student_id", studentID,
		"stored_events", len(events),
		"total_events", total)

	return &IngestResult{
		AttemptID:    attemptID,
		StoredEvents: len(events),
		TotalEvents:  total,
	}, nil
}

func (s *proctoringService) ListEvents(ctx context.Context, attemptID uint, filters repositories.EventFilters, userID string, role models.UserRole) ([]*models.ProctoringEvent, int64, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, 0, ErrAttemptNotFound
		}
		return nil, 0, fmt.Errorf("failed to get attempt: %w", err)
	}

	if !canViewAttempt(attempt, userID, role) {
		return nil, 0, NewPermissionError(userID, attemptID, "attempt", "view_events", "not assignment owner")
	}

	// Listing queries are always capped; the scorer's input contract relies
	// on the query layer bounding result sizes.
	if filters.Limit <= 0 || filters.Limit > s.queryLimit {
		filters.Limit = s.queryLimit
	}

	events, total, err := s.repo.Event().GetByAttempt(ctx, attemptID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}

	return events, total, nil
}

// canViewAttempt reports whether userID may read proctoring data for the
// attempt. Teachers see only attempts for assignments they own.
func canViewAttempt(attempt *models.QuizAttempt, userID string, role models.UserRole) bool {
	if role == models.RoleAdmin {
		return true
	}
	return role == models.RoleTeacher && attempt.AssignmentOwnerID == userID
}

func reportCacheKey(attemptID uint) string {
	return fmt.Sprintf("anticheat:report:%d", attemptID)
}
