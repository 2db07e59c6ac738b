package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/api/middleware"
	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/internal/service"
)

// HandleGetSettings handles GET /api/settings
func HandleGetSettings(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := middleware.GetUserFromContext(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, svcs.Store.Settings())
	}
}

// HandleSaveSettings handles POST /api/settings. The riskHours/overdueHours
// ordering is validated here because classification depends on it.
func HandleSaveSettings(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !user.Can(func(p domain.UserPermissions) bool { return p.ManageSettings }) {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied: manage settings"})
			return
		}

		var settings domain.AppSettings
		if err := c.ShouldBindJSON(&settings); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if err := svcs.Store.SetSettings(settings); err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}
