package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/api/middleware"
	"github.com/nexusops/fulfillment-api/internal/engine"
	"github.com/nexusops/fulfillment-api/internal/service"
)

// UpdateTagRequest represents the tag update body
type UpdateTagRequest struct {
	Tag string `json:"tag"`
}

// HandleListOrders handles GET /api/orders
func HandleListOrders(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
		if err != nil || pageSize < 1 || pageSize > 200 {
			pageSize = 20
		}

		filters := engine.OrderFilters{
			Page:           page,
			PageSize:       pageSize,
			Status:         c.Query("status"),
			Search:         c.Query("search"),
			DeepSearch:     c.DefaultQuery("deepSearch", "1") == "1",
			Tag:            c.Query("tag"),
			PurchaseStatus: c.Query("purchaseStatus"),
			StartDate:      c.Query("startDate"),
			EndDate:        c.Query("endDate"),
			ShopName:       c.Query("shopName"),
			TimeFilter:     c.Query("timeFilter"),
		}

		c.JSON(http.StatusOK, svcs.Orders.List(user, filters, time.Now()))
	}
}

// HandleGetOrder handles GET /api/orders/:id
func HandleGetOrder(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		order, err := svcs.Orders.Get(user, c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// HandleSyncOrders handles POST /api/sync: batch upsert of order records.
func HandleSyncOrders(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var payloads []service.OrderPayload
		if err := c.ShouldBindJSON(&payloads); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		accepted, err := svcs.Orders.Sync(user, payloads)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		logger.Info("orders synced",
			zap.String("user", user.Username),
			zap.Int("accepted", accepted),
		)
		c.JSON(http.StatusOK, gin.H{"accepted": accepted})
	}
}

// HandleUpdateOrderTag handles PUT /api/orders/:id/tag
func HandleUpdateOrderTag(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req UpdateTagRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed"})
			return
		}

		if err := svcs.Orders.UpdateTag(user, c.Param("id"), req.Tag); err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	}
}

// HandleDeleteOrder handles DELETE /api/orders/:id (admin only, idempotent)
func HandleDeleteOrder(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if err := svcs.Orders.Delete(user, c.Param("id")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
