package postgres

import (
	"context"

	"github.com/quizshield/proctoring-service/internal/models"
	"github.com/quizshield/proctoring-service/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	db      *gorm.DB
	attempt repositories.AttemptRepository
	event   repositories.EventRepository
}

// NewRepository wires the PostgreSQL repositories and migrates the schema
func NewRepository(db *gorm.DB) (repositories.Repository, error) {
	if err := db.AutoMigrate(&models.QuizAttempt{}, &models.ProctoringEvent{}); err != nil {
		return nil, err
	}

	return &Repository{
		db:      db,
		attempt: NewAttemptPostgreSQL(db),
		event:   NewEventPostgreSQL(db),
	}, nil
}

func (r *Repository) Attempt() repositories.AttemptRepository {
	return r.attempt
}

func (r *Repository) Event() repositories.EventRepository {
	return r.event
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
