package postgres

import (
	"context"

	"github.com/quizshield/proctoring-service/internal/models"
	"github.com/quizshield/proctoring-service/internal/repositories"
	"gorm.io/gorm"
)

// Batch insert chunk size for proctoring events
const eventInsertBatchSize = 100

type EventPostgreSQL struct {
	db *gorm.DB
}

func NewEventPostgreSQL(db *gorm.DB) repositories.EventRepository {
	return &EventPostgreSQL{db: db}
}

func (e EventPostgreSQL) CreateBatch(ctx context.Context, events []*models.ProctoringEvent) error {
	if len(events) == 0 {
		return nil
	}
	return e.db.WithContext(ctx).CreateInBatches(events, eventInsertBatchSize).Error
}

func (e EventPostgreSQL) GetByAttempt(ctx context.Context, attemptID uint, filters repositories.EventFilters) ([]*models.ProctoringEvent, int64, error) {
	var events []*models.ProctoringEvent
	var total int64

	// apply filters first
	query := e.db.WithContext(ctx).
		Model(&models.ProctoringEvent{}).
		Where("attempt_id = ?", attemptID)
	query = e.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then apply pagination and sorting
	order := "created_at ASC"
	if filters.SortOrder == "desc" {
		order = "created_at DESC"
	}
	query = query.Order(order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (e EventPostgreSQL) CountByAttempt(ctx context.Context, attemptID uint) (int64, error) {
	var count int64
	if err := e.db.WithContext(ctx).
		Model(&models.ProctoringEvent{}).
		Where("attempt_id = ?", attemptID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (e EventPostgreSQL) applyFilters(query *gorm.DB, filters repositories.EventFilters) *gorm.DB {
	if filters.EventType != nil {
		query = query.Where("event_type = ?", *filters.EventType)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}
