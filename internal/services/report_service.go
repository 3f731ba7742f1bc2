package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/quizshield/proctoring-service/internal/anticheat"
	"github.com/quizshield/proctoring-service/internal/cache"
	"github.com/quizshield/proctoring-service/internal/events"
	"github.com/quizshield/proctoring-service/internal/models"
	"github.com/quizshield/proctoring-service/internal/repositories"
)

// Cached reports expire quickly; ingestion also invalidates them eagerly
const reportCacheTTL = 5 * time.Minute

// ReportService computes anti-cheat reports for teachers. The score itself
// comes from the pure scorer in internal/anticheat; this service owns
// authorization, the event fetch, caching and high-risk alerting.
type ReportService interface {
	GetReport(ctx context.Context, attemptID uint, userID string, role models.UserRole) (*AntiCheatReport, error)
}

// AntiCheatReport is the teacher-facing scoring result. TotalEvents counts
// every persisted event for the attempt, which can exceed the capped slice
// the score was computed from.
type AntiCheatReport struct {
	AttemptID    uint   `json:"attempt_id"`
	AssignmentID uint   `json:"assignment_id"`
	StudentID    string `json:"student_id"`

	anticheat.Result

	TotalEvents int64     `json:"total_events"`
	ComputedAt  time.Time `json:"computed_at"`
}

type reportService struct {
	repo       repositories.Repository
	cache      cache.CacheService
	publisher  events.AlertPublisher
	scorer     *anticheat.Scorer
	logger     *slog.Logger
	queryLimit int
}

func NewReportService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.AlertPublisher,
	scorer *anticheat.Scorer,
	logger *slog.Logger,
	queryLimit int,
) ReportService {
	return &reportService{
		repo:       repo,
		cache:      cacheService,
		publisher:  publisher,
		scorer:     scorer,
		logger:     logger,
		queryLimit: queryLimit,
	}
}

func (s *reportService) GetReport(ctx context.Context, attemptID uint, userID string, role models.UserRole) (*AntiCheatReport, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if !canViewAttempt(attempt, userID, role) {
		return nil, NewPermissionError(userID, attemptID, "attempt", "view_report", "not assignment owner")
	}

	cacheKey := reportCacheKey(attemptID)
	var cached AntiCheatReport
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		s.logger.Debug("Serving cached anti-cheat report", "attempt_id", attemptID)
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Report cache lookup failed",
			"attempt_id", attemptID,
			"error", err)
	}

	report, err := s.computeReport(ctx, attempt)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, report, reportCacheTTL); err != nil {
		s.logger.Warn("Failed to cache anti-cheat report",
			"attempt_id", attemptID,
			"error", err)
	}

	if report.RiskLevel == anticheat.RiskHigh {
		s.publishHighRiskAlert(ctx, attempt, report)
	}

	return report, nil
}

func (s *reportService) computeReport(ctx context.Context, attempt *models.QuizAttempt) (*AntiCheatReport, error) {
	rows, _, err := s.repo.Event().GetByAttempt(ctx, attempt.ID, repositories.EventFilters{
		Limit:     s.queryLimit,
		SortOrder: "asc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}

	scorerEvents := make([]anticheat.Event, len(rows))
	for i, row := range rows {
		scorerEvents[i] = anticheat.Event{
			Type:      row.EventType,
			CreatedAt: row.CreatedAt,
			Metadata:  []byte(row.Metadata),
		}
	}

	result := s.scorer.Score(scorerEvents)

	total, err := s.repo.Event().CountByAttempt(ctx, attempt.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	s.logger.Info("Anti-cheat report computed",
		"attempt_id", attempt.ID,
		"assignment_id", attempt.AssignmentID,
		"suspicion_score", result.SuspicionScore,
		"risk_level", result.RiskLevel,
		"total_events", total)

	return &AntiCheatReport{
		AttemptID:    attempt.ID,
		AssignmentID: attempt.AssignmentID,
		StudentID:    attempt.StudentID,
		Result:       result,
		TotalEvents:  total,
		ComputedAt:   time.Now(),
	}, nil
}

// publishHighRiskAlert is best effort: alerting must never fail a report
// request.
func (s *reportService) publishHighRiskAlert(ctx context.Context, attempt *models.QuizAttempt, report *AntiCheatReport) {
	ruleIDs := make([]string, 0, len(report.Breakdown))
	for _, item := range report.Breakdown {
		ruleIDs = append(ruleIDs, item.RuleID)
	}

	event := events.NewHighRiskAttemptEvent(events.HighRiskAttemptEvent{
		AttemptID:         attempt.ID,
		AssignmentID:      attempt.AssignmentID,
		StudentID:         attempt.StudentID,
		AssignmentOwnerID: attempt.AssignmentOwnerID,
		SuspicionScore:    report.SuspicionScore,
		RiskLevel:         report.RiskLevel,
		TriggeredRuleIDs:  ruleIDs,
		TotalEvents:       report.TotalEvents,
		ComputedAt:        report.ComputedAt,
	})

	if err := s.publisher.PublishAlert(ctx, event); err != nil {
		s.logger.Error("Failed to publish high risk alert",
			"attempt_id", attempt.ID,
			"error", err)
	}
}
