package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizshield/proctoring-service/internal/services"
	"github.com/quizshield/proctoring-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
	}
}

// GetAntiCheatReport returns the scored suspicion report for an attempt.
// Restricted to the owning teacher and admins.
func (h *ReportHandler) GetAntiCheatReport(c *gin.Context) {
	attemptID := h.parseIDParam(c, "attempt_id")
	if attemptID == 0 {
		return
	}

	userID, role, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "User not authenticated"})
		return
	}

	h.LogRequest(c, "Fetching anti-cheat report", "attempt_id", attemptID)

	report, err := h.reportService.GetReport(c.Request.Context(), attemptID, userID, role)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
