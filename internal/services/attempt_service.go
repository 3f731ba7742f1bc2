package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizshield/proctoring-service/internal/models"
	"github.com/quizshield/proctoring-service/internal/repositories"
	"github.com/quizshield/proctoring-service/internal/validator"
)

// AttemptService manages the attempt rows proctoring events are scoped to.
// Attempts are registered by the upstream LMS when a student starts a quiz.
type AttemptService interface {
	Register(ctx context.Context, req *RegisterAttemptRequest) (*models.QuizAttempt, error)
	Submit(ctx context.Context, attemptID uint, studentID string) (*models.QuizAttempt, error)
	GetByID(ctx context.Context, attemptID uint) (*models.QuizAttempt, error)
	List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error)
}

type RegisterAttemptRequest struct {
	AssignmentID      uint   `json:"assignment_id" validate:"required"`
	StudentID         string `json:"student_id" validate:"required,max=255"`
	AssignmentOwnerID string `json:"assignment_owner_id" validate:"required,max=255"`
}

type attemptService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttemptService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) AttemptService {
	return &attemptService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *attemptService) Register(ctx context.Context, req *RegisterAttemptRequest) (*models.QuizAttempt, error) {
	s.logger.Info("Registering quiz attempt",
		"assignment_id", req.AssignmentID,
		"student_id", req.StudentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	attemptNumber, err := s.repo.Attempt().GetNextAttemptNumber(ctx, req.AssignmentID, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get next attempt number: %w", err)
	}

	attempt := &models.QuizAttempt{
		AssignmentID:      req.AssignmentID,
		StudentID:         req.StudentID,
		AssignmentOwnerID: req.AssignmentOwnerID,
		AttemptNumber:     attemptNumber,
		Status:            models.AttemptInProgress,
		StartedAt:         time.Now(),
	}

	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	s.logger.Info("Quiz attempt registered",
		"attempt_id", attempt.ID,
		"assignment_id", req.AssignmentID,
		"attempt_number", attemptNumber)

	return attempt, nil
}

func (s *attemptService) Submit(ctx context.Context, attemptID uint, studentID string) (*models.QuizAttempt, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if attempt.StudentID != studentID {
		return nil, NewPermissionError(studentID, attemptID, "attempt", "submit", "not owned by student")
	}

	if attempt.Status == models.AttemptSubmitted {
		return nil, ErrAttemptAlreadySubmitted
	}

	submittedAt := time.Now()
	if err := s.repo.Attempt().UpdateStatus(ctx, attemptID, models.AttemptSubmitted, &submittedAt); err != nil {
		return nil, fmt.Errorf("failed to update attempt status: %w", err)
	}

	attempt.Status = models.AttemptSubmitted
	attempt.SubmittedAt = &submittedAt

	s.logger.Info("Quiz attempt submitted",
		"attempt_id", attemptID,
		"student_id", studentID)

	return attempt, nil
}

func (s *attemptService) GetByID(ctx context.Context, attemptID uint) (*models.QuizAttempt, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	return attempt, nil
}

func (s *attemptService) List(ctx context.Context, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	attempts, total, err := s.repo.Attempt().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}

	return attempts, total, nil
}
