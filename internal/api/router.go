package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/api/handlers"
	"github.com/nexusops/fulfillment-api/internal/api/middleware"
	"github.com/nexusops/fulfillment-api/internal/config"
	"github.com/nexusops/fulfillment-api/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, svcs *service.Services, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		// Connection probe used by the dashboard frontend
		api.GET("/stats", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		api.POST("/auth/login", handlers.HandleLogin(svcs, logger))

		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(svcs.Users, logger))
		{
			authed.GET("/orders", handlers.HandleListOrders(svcs, logger))
			authed.GET("/orders/:id", handlers.HandleGetOrder(svcs, logger))
			authed.POST("/sync", handlers.HandleSyncOrders(svcs, logger))
			authed.PUT("/orders/:id/tag", handlers.HandleUpdateOrderTag(svcs, logger))
			authed.DELETE("/orders/:id", handlers.HandleDeleteOrder(svcs, logger))

			authed.GET("/aftersales", handlers.HandleListAfterSales(svcs, logger))
			authed.POST("/aftersales", handlers.HandleSaveAfterSale(svcs, logger))
			authed.PUT("/aftersales/:id", handlers.HandleSaveAfterSale(svcs, logger))
			authed.DELETE("/aftersales/:id", handlers.HandleDeleteAfterSale(svcs, logger))

			authed.GET("/shops", handlers.HandleListShops(svcs, logger))
			authed.POST("/shops", handlers.HandleSaveShop(svcs, logger))
			authed.PUT("/shops/:id", handlers.HandleSaveShop(svcs, logger))
			authed.DELETE("/shops/:id", handlers.HandleDeleteShop(svcs, logger))

			authed.GET("/users", handlers.HandleListUsersByShop(svcs, logger))
			authed.POST("/users", handlers.HandleSaveUser(svcs, logger))
			authed.DELETE("/users/:username", handlers.HandleDeleteUser(svcs, logger))

			authed.GET("/settings", handlers.HandleGetSettings(svcs, logger))
			authed.POST("/settings", handlers.HandleSaveSettings(svcs, logger))

			authed.GET("/dashboard/stats", handlers.HandleDashboardStats(svcs, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
