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

// HandleListAfterSales handles GET /api/aftersales
func HandleListAfterSales(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		filters := engine.AfterSaleFilters{
			Search:         c.Query("search"),
			Status:         c.Query("status"),
			Type:           c.Query("type"),
			ShopName:       c.Query("shopName"),
			Tag:            c.Query("tag"),
			PurchaseStatus: c.Query("purchaseStatus"),
		}
		c.JSON(http.StatusOK, svcs.AfterSales.List(user, filters))
	}
}

// HandleSaveAfterSale handles POST /api/aftersales and PUT /api/aftersales/:id
func HandleSaveAfterSale(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var payload service.AfterSalePayload
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
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid after-sale ID"})
				return
			}
			payload.ID = id
		}

		record, err := svcs.AfterSales.Save(user, payload, time.Now())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

// HandleDeleteAfterSale handles DELETE /api/aftersales/:id (idempotent)
func HandleDeleteAfterSale(svcs *service.Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.GetUserFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid after-sale ID"})
			return
		}
		if err := svcs.AfterSales.Delete(user, id); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
