package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/store"
)

// Services bundles all application services plus the store for the thin
// CRUD surfaces (shops, settings) that need no extra orchestration.
type Services struct {
	Orders     *OrderService
	AfterSales *AfterSaleService
	Dashboard  *DashboardService
	Users      *UserService
	Store      *store.Store
}

// NewServices wires all services over one store.
func NewServices(st *store.Store, jwtSecret string, tokenTTL time.Duration, trendDays int, logger *zap.Logger) *Services {
	return &Services{
		Orders:     NewOrderService(st, logger),
		AfterSales: NewAfterSaleService(st, logger),
		Dashboard:  NewDashboardService(st, trendDays, logger),
		Users:      NewUserService(st, jwtSecret, tokenTTL, logger),
		Store:      st,
	}
}
