package services

import (
	"log/slog"

	"github.com/quizshield/proctoring-service/internal/anticheat"
	"github.com/quizshield/proctoring-service/internal/cache"
	"github.com/quizshield/proctoring-service/internal/events"
	"github.com/quizshield/proctoring-service/internal/repositories"
	"github.com/quizshield/proctoring-service/internal/validator"
)

// ServiceManager bundles the service layer for handler wiring
type ServiceManager interface {
	Attempt() AttemptService
	Proctoring() ProctoringService
	Report() ReportService
}

type serviceManager struct {
	attempt    AttemptService
	proctoring ProctoringService
	report     ReportService
}

// ManagerConfig carries the dependencies shared across services
type ManagerConfig struct {
	Repo       repositories.Repository
	Cache      cache.CacheService
	Publisher  events.AlertPublisher
	Scorer     *anticheat.Scorer
	Logger     *slog.Logger
	Validator  *validator.Validator
	QueryLimit int
}

func NewServiceManager(cfg ManagerConfig) ServiceManager {
	return &serviceManager{
		attempt:    NewAttemptService(cfg.Repo, cfg.Logger, cfg.Validator),
		proctoring: NewProctoringService(cfg.Repo, cfg.Cache, cfg.Logger, cfg.Validator, cfg.QueryLimit),
		report:     NewReportService(cfg.Repo, cfg.Cache, cfg.Publisher, cfg.Scorer, cfg.Logger, cfg.QueryLimit),
	}
}

func (m *serviceManager) Attempt() AttemptService {
	return m.attempt
}

func (m *serviceManager) Proctoring() ProctoringService {
	return m.proctoring
}

func (m *serviceManager) Report() ReportService {
	return m.report
}
