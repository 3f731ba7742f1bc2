package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/quizshield/proctoring-service/internal/models"
	"github.com/quizshield/proctoring-service/internal/repositories"
	"github.com/quizshield/proctoring-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestProctoringService(repo *MockRepository, cacheService *memoryCache) ProctoringService {
	return NewProctoringService(repo, cacheService, testLogger(), validator.New(), 500)
}

func ingestRequest(eventTypes ...string) *IngestEventsRequest {
	req := &IngestEventsRequest{}
	for _, et := range eventTypes {
		req.Events = append(req.Events, EventInput{EventType: et})
	}
	return req
}

func TestProctoringService_IngestEvents(t *testing.T) {
	reqCtx := RequestContext{UserAgent: "Mozilla/5.0", IPAddress: "10.0.0.5"}

	t.Run("stores a batch and reports totals", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(testAttempt(), nil)
		repo.eventRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(rows []*models.ProctoringEvent) bool {
			if len(rows) != 2 {
				return false
			}
			for _, row := range rows {
				if row.AttemptID != 42 || row.UserAgent != "Mozilla/5.0" || row.IPAddress != "10.0.0.5" {
					return false
				}
				if row.OccurredAt.IsZero() {
					return false
				}
			}
			return rows[0].EventType == "TAB_SWITCH" && rows[1].EventType == "WINDOW_BLUR"
		})).Return(nil)
		repo.eventRepo.On("CountByAttempt", mock.Anything, uint(42)).Return(int64(5), nil)

		service := newTestProctoringService(repo, newMemoryCache())

		result, err := service.IngestEvents(context.Background(), 42,
			ingestRequest("TAB_SWITCH", "WINDOW_BLUR"), "student-1", reqCtx)
		require.NoError(t, err)
		assert.Equal(t, uint(42), result.AttemptID)
		assert.Equal(t, 2, result.StoredEvents)
		assert.Equal(t, int64(5), result.TotalEvents)
		repo.AssertExpectations(t)
	})

	t.Run("preserves client timestamps", func(t *testing.T) {
		occurredAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(testAttempt(), nil)
		repo.eventRepo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(rows []*models.ProctoringEvent) bool {
			return len(rows) == 1 && rows[0].OccurredAt.Equal(occurredAt)
		})).Return(nil)
		repo.eventRepo.On("CountByAttempt", mock.Anything, uint(42)).Return(int64(1), nil)

		service := newTestProctoringService(repo, newMemoryCache())

		_, err := service.IngestEvents(context.Background(), 42, &IngestEventsRequest{
			Events: []EventInput{{
				EventType:  "CLIPBOARD",
				OccurredAt: occurredAt,
				Metadata:   json.RawMessage(`{"direction":"paste"}`),
			}},
		}, "student-1", reqCtx)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("invalidates the cached report", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(testAttempt(), nil)
		repo.eventRepo.On("CreateBatch", mock.Anything, mock.Anything).Return(nil)
		repo.eventRepo.On("CountByAttempt", mock.Anything, uint(42)).Return(int64(1), nil)

		cacheService := newMemoryCache()
		key := reportCacheKey(42)
		require.NoError(t, cacheService.Set(context.Background(), key, &AntiCheatReport{AttemptID: 42}, time.Minute))

		service := newTestProctoringService(repo, cacheService)

		_, err := service.IngestEvents(context.Background(), 42, ingestRequest("TAB_SWITCH"), "student-1", reqCtx)
		require.NoError(t, err)
		assert.False(t, cacheService.has(key), "stale report should be evicted")
	})

	t.Run("rejects events from another student", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(testAttempt(), nil)

		service := newTestProctoringService(repo, newMemoryCache())

		_, err := service.IngestEvents(context.Background(), 42, ingestRequest("TAB_SWITCH"), "student-2", reqCtx)
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("rejects events for a submitted attempt", func(t *testing.T) {
		submitted := testAttempt()
		submitted.Status = models.AttemptSubmitted

		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(submitted, nil)

		service := newTestProctoringService(repo, newMemoryCache())

		_, err := service.IngestEvents(context.Background(), 42, ingestRequest("TAB_SWITCH"), "student-1", reqCtx)
		require.ErrorIs(t, err, ErrAttemptNotActive)
	})

	t.Run("rejects an empty batch", func(t *testing.T) {
		service := newTestProctoringService(newMockRepository(), newMemoryCache())

		_, err := service.IngestEvents(context.Background(), 42, &IngestEventsRequest{}, "student-1", reqCtx)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("rejects oversized batches", func(t *testing.T) {
		types := make([]string, maxEventsPerBatch+1)
		for i := range types {
			types[i] = "TAB_SWITCH"
		}

		service := newTestProctoringService(newMockRepository(), newMemoryCache())

		_, err := service.IngestEvents(context.Background(), 42, ingestRequest(types...), "student-1", reqCtx)
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("missing attempt maps to not found", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		service := newTestProctoringService(repo, newMemoryCache())

		_, err := service.IngestEvents(context.Background(), 99, ingestRequest("TAB_SWITCH"), "student-1", reqCtx)
		require.ErrorIs(t, err, ErrAttemptNotFound)
	})
}

func TestProctoringService_ListEvents(t *testing.T) {
	t.Run("owner teacher lists events with capped limit", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(testAttempt(), nil)
		repo.eventRepo.On("GetByAttempt", mock.Anything, uint(42), mock.MatchedBy(func(f repositories.EventFilters) bool {
			return f.Limit == 500
		})).Return(storedEvents("TAB_SWITCH", 3), int64(3), nil)

		service := newTestProctoringService(repo, newMemoryCache())

		// Limit 0 and an oversized limit both fall back to the service cap
		for _, limit := range []int{0, 10000} {
			rows, total, err := service.ListEvents(context.Background(), 42,
				repositories.EventFilters{Limit: limit}, "teacher-1", models.RoleTeacher)
			require.NoError(t, err)
			assert.Len(t, rows, 3)
			assert.Equal(t, int64(3), total)
		}
	})

	t.Run("explicit small limit is passed through", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(testAttempt(), nil)
		repo.eventRepo.On("GetByAttempt", mock.Anything, uint(42), mock.MatchedBy(func(f repositories.EventFilters) bool {
			return f.Limit == 25 && f.Offset == 50
		})).Return(storedEvents("TAB_SWITCH", 25), int64(100), nil)

		service := newTestProctoringService(repo, newMemoryCache())

		rows, total, err := service.ListEvents(context.Background(), 42,
			repositories.EventFilters{Limit: 25, Offset: 50}, "teacher-1", models.RoleTeacher)
		require.NoError(t, err)
		assert.Len(t, rows, 25)
		assert.Equal(t, int64(100), total)
	})

	t.Run("students may not read the raw event log", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(testAttempt(), nil)

		service := newTestProctoringService(repo, newMemoryCache())

		_, _, err := service.ListEvents(context.Background(), 42,
			repositories.EventFilters{}, "student-1", models.RoleStudent)
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("non-owner teacher is denied", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(testAttempt(), nil)

		service := newTestProctoringService(repo, newMemoryCache())

		_, _, err := service.ListEvents(context.Background(), 42,
			repositories.EventFilters{}, "teacher-2", models.RoleTeacher)
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
	})
}
