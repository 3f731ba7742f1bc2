package services

import (
	"context"
	"testing"

	"github.com/quizshield/proctoring-service/internal/models"
	"github.com/quizshield/proctoring-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestAttemptService(repo *MockRepository) AttemptService {
	return NewAttemptService(repo, testLogger(), validator.New())
}

func TestAttemptService_Register(t *testing.T) {
	t.Run("assigns the next attempt number", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetNextAttemptNumber", mock.Anything, uint(7), "student-1").Return(3, nil)
		repo.attemptRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *models.QuizAttempt) bool {
			return a.AssignmentID == 7 &&
				a.StudentID == "student-1" &&
				a.AssignmentOwnerID == "teacher-1" &&
				a.AttemptNumber == 3 &&
				a.Status == models.AttemptInProgress &&
				!a.StartedAt.IsZero()
		})).Return(nil)

		service := newTestAttemptService(repo)

		attempt, err := service.Register(context.Background(), &RegisterAttemptRequest{
			AssignmentID:      7,
			StudentID:         "student-1",
			AssignmentOwnerID: "teacher-1",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempt.AttemptNumber)
		assert.True(t, attempt.IsActive())
		repo.AssertExpectations(t)
	})

	t.Run("rejects a request without a student", func(t *testing.T) {
		service := newTestAttemptService(newMockRepository())

		_, err := service.Register(context.Background(), &RegisterAttemptRequest{
			AssignmentID:      7,
			AssignmentOwnerID: "teacher-1",
		})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})
}

func TestAttemptService_Submit(t *testing.T) {
	t.Run("marks the attempt submitted", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(testAttempt(), nil)
		repo.attemptRepo.On("UpdateStatus", mock.Anything, uint(42), models.AttemptSubmitted, mock.Anything).Return(nil)

		service := newTestAttemptService(repo)

		attempt, err := service.Submit(context.Background(), 42, "student-1")
		require.NoError(t, err)
		assert.Equal(t, models.AttemptSubmitted, attempt.Status)
		require.NotNil(t, attempt.SubmittedAt)
		assert.False(t, attempt.IsActive())
		repo.AssertExpectations(t)
	})

	t.Run("only the owning student may submit", func(t *testing.T) {
		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(testAttempt(), nil)

		service := newTestAttemptService(repo)

		_, err := service.Submit(context.Background(), 42, "student-2")
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("double submission conflicts", func(t *testing.T) {
		submitted := testAttempt()
		submitted.Status = models.AttemptSubmitted

		repo := newMockRepository()
		repo.attemptRepo.On("GetByID", mock.Anything, uint(42)).Return(submitted, nil)

		service := newTestAttemptService(repo)

		_, err := service.Submit(context.Background(), 42, "student-1")
		require.ErrorIs(t, err, ErrAttemptAlreadySubmitted)
		assert.True(t, IsConflict(err))
	})
}
