package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/quizshield/proctoring-service/internal/services"
	"github.com/quizshield/proctoring-service/internal/utils"
)

type HandlerManager struct {
	attemptHandler    *AttemptHandler
	proctoringHandler *ProctoringHandler
	reportHandler     *ReportHandler
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		attemptHandler:    NewAttemptHandler(serviceManager.Attempt(), logger),
		proctoringHandler: NewProctoringHandler(serviceManager.Proctoring(), logger),
		reportHandler:     NewReportHandler(serviceManager.Report(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "proctoring-service",
		})
	})

	// API v1 routes, identity headers are injected by the gateway
	v1 := router.Group("/api/v1", IdentityMiddleware())
	{
		attempts := v1.Group("/attempts")
		{
			attempts.POST("", hm.attemptHandler.RegisterAttempt)
			attempts.GET("", hm.attemptHandler.ListAttempts)
			attempts.GET("/:attempt_id", hm.attemptHandler.GetAttempt)
			attempts.POST("/:attempt_id/submit", hm.attemptHandler.SubmitAttempt)

			// Proctoring event routes
			attempts.POST("/:attempt_id/events", hm.proctoringHandler.IngestEvents)
			attempts.GET("/:attempt_id/events", hm.proctoringHandler.ListEvents)

			// Scoring routes
			attempts.GET("/:attempt_id/anticheat-report", hm.reportHandler.GetAntiCheatReport)
		}
	}
}
