package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizshield/proctoring-service/internal/models"
	"github.com/quizshield/proctoring-service/internal/repositories"
	"github.com/quizshield/proctoring-service/internal/services"
	"github.com/quizshield/proctoring-service/internal/utils"
)

type ProctoringHandler struct {
	BaseHandler
	proctoringService services.ProctoringService
}

func NewProctoringHandler(proctoringService services.ProctoringService, logger utils.Logger) *ProctoringHandler {
	return &ProctoringHandler{
		BaseHandler:       NewBaseHandler(logger),
		proctoringService: proctoringService,
	}
}

// IngestEvents accepts a batch of proctoring signals from the student's
// browser during an active attempt
func (h *ProctoringHandler) IngestEvents(c *gin.Context) {
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
			"only the attempt's student may report proctoring events")
		return
	}

	var req services.IngestEventsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Ingesting proctoring events",
		"attempt_id", attemptID,
		"event_count", len(req.Events))

	result, err := h.proctoringService.IngestEvents(c.Request.Context(), attemptID, &req, userID, services.RequestContext{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Events recorded",
		Data:    result,
	})
}

// ListEvents returns the paginated raw event log for an attempt
// (teacher/admin only)
func (h *ProctoringHandler) ListEvents(c *gin.Context) {
	attemptID := h.parseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	filters := repositories.EventFilters{
		Limit:     parseQueryInt(c, "limit", 0),
		Offset:    parseQueryInt(c, "offset", 0),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	if v := c.Query("event_type"); v != "" {
		filters.EventType = &v
	}

	events, total, err := h.proctoringService.ListEvents(c.Request.Context(), attemptID, filters, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:   events,
		Total:  total,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}
