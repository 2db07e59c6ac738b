package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/api/middleware"
	"github.com/nexusops/fulfillment-api/internal/service"
)

// HandleListUsersByShop handles GET /api/users?shopId=N
func HandleListUsersByShop(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied: manage users"})
			return
		}

		shopID, err := strconv.Atoi(c.Query("shopId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop ID"})
			return
		}
		c.JSON(http.StatusOK, svcs.Users.UsersByShop(shopID))
	}
}

// HandleSaveUser handles POST /api/users (admin only)
func HandleSaveUser(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var payload service.UserPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		if err := svcs.Users.Save(user, payload); err != nil {
			writeError(c, logger, err)
			return
		}
		logger.Info("user saved",
			zap.String("actor", user.Username),
			zap.String("username", payload.Username),
		)
		c.JSON(http.StatusOK, gin.H{"username": payload.Username})
	}
}

// HandleDeleteUser handles DELETE /api/users/:username (admin only, idempotent)
func HandleDeleteUser(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if err := svcs.Users.Delete(user, c.Param("username")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
