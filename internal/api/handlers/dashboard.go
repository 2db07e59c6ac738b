package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/api/middleware"
	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/internal/service"
)

// HandleDashboardStats handles GET /api/dashboard/stats
func HandleDashboardStats(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !user.Can(func(p domain.UserPermissions) bool { return p.ViewDashboard }) {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied: view dashboard"})
			return
		}
		c.JSON(http.StatusOK, svcs.Dashboard.Stats(user, c.Query("shopName"), time.Now()))
	}
}
