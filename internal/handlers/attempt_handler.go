package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizshield/proctoring-service/internal/models"
	"github.com/quizshield/proctoring-service/internal/repositories"
	"github.com/quizshield/proctoring-service/internal/services"
	"github.com/quizshield/proctoring-service/internal/utils"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
}

func NewAttemptHandler(attemptService services.AttemptService, logger utils.Logger) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
	}
}

// RegisterAttempt registers a new quiz attempt scope for proctoring.
// Called by the upstream LMS when a student starts a quiz.
func (h *AttemptHandler) RegisterAttempt(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	if role != models.RoleAdmin && role != models.RoleTeacher {
		h.RespondWithError(c, http.StatusForbidden, "Access denied", nil,
			"only the LMS integration or teachers may register attempts")
		return
	}

	var req services.RegisterAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Registering attempt",
		"assignment_id", req.AssignmentID,
		"registered_by", userID)

	attempt, err := h.attemptService.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Attempt registered",
		Data:    attempt,
	})
}

// SubmitAttempt marks an attempt submitted; no further events are accepted
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	attemptID := h.parseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}
	if role != models.RoleStudent {
		h.RespondWithError(c, http.StatusForbidden, "Access denied", nil,
			"only the attempt's student may submit")
		return
	}

	h.LogRequest(c, "Submitting attempt", "attempt_id", attemptID)

	attempt, err := h.attemptService.Submit(c.Request.Context(), attemptID, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Attempt submitted",
		Data:    attempt,
	})
}

// GetAttempt returns one attempt row
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := h.parseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	attempt, err := h.attemptService.GetByID(c.Request.Context(), attemptID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Students may only read their own attempts
	if role == models.RoleStudent && attempt.StudentID != userID {
		h.RespondWithError(c, http.StatusForbidden, "Access denied", nil)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// ListAttempts lists attempts, filterable by assignment, student and status
func (h *AttemptHandler) ListAttempts(c *gin.Context) {
	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	filters := repositories.AttemptFilters{
		Limit:  parseQueryInt(c, "limit", 50),
		Offset: parseQueryInt(c, "offset", 0),
	}
	if v := c.Query("assignment_id"); v != "" {
		if id := parseQueryInt(c, "assignment_id", 0); id > 0 {
			assignmentID := uint(id)
			filters.AssignmentID = &assignmentID
		}
	}
	if v := c.Query("status"); v != "" {
		status := models.AttemptStatus(v)
		filters.Status = &status
	}

	// Students see only their own attempts regardless of filters
	if role == models.RoleStudent {
		filters.StudentID = &userID
	} else if v := c.Query("student_id"); v != "" {
		filters.StudentID = &v
	}

	attempts, total, err := h.attemptService.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:   attempts,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}
