package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/api/middleware"
	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/internal/engine"
	"github.com/nexusops/fulfillment-api/internal/service"
)

// HandleListShops handles GET /api/shops. The listing is scoped like every
// other read so filter dropdowns never leak shop names.
func HandleListShops(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, engine.ScopeShops(svcs.Store.Shops(), user))
	}
}

// HandleSaveShop handles POST /api/shops and PUT /api/shops/:id (admin only)
func HandleSaveShop(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied: manage shops"})
			return
		}

		var payload service.ShopPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if idParam := c.Param("id"); idParam != "" {
			id, err := strconv.Atoi(idParam)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop ID"})
				return
			}
			payload.ID = id
		}

		shop, err := svcs.Store.SaveShop(domain.Shop{
			ID:           payload.ID,
			Name:         payload.Name,
			CompanyName:  payload.CompanyName,
			ShopPassword: payload.ShopPassword,
			Note:         payload.Note,
		})
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, shop)
	}
}

// HandleDeleteShop handles DELETE /api/shops/:id (admin only, idempotent)
func HandleDeleteShop(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !user.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied: manage shops"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shop ID"})
			return
		}
		svcs.Store.DeleteShop(id)
		c.Status(http.StatusNoContent)
	}
}
