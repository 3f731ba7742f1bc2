package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizshield/proctoring-service/internal/models"
)

// IdentityMiddleware reads the identity the upstream gateway attaches to
// every request. Authentication itself happens upstream; this service only
// consumes the already-verified identity headers.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		role := models.UserRole(c.GetHeader("X-User-Role"))

		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "User not authenticated",
			})
			return
		}

		switch role {
		case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Unknown user role",
			})
			return
		}

		c.Set("user_id", userID)
		c.Set("user_role", role)
		c.Next()
	}
}
