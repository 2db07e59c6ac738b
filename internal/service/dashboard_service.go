package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/internal/engine"
	"github.com/nexusops/fulfillment-api/internal/store"
)

type DashboardService struct {
	store     *store.Store
	trendDays int
	logger    *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(st *store.Store, trendDays int, logger *zap.Logger) *DashboardService {
	return &DashboardService{store: st, trendDays: trendDays, logger: logger}
}

// Stats assembles the dashboard for the acting user, optionally narrowed to
// one shop. The same access scope used for listings feeds the aggregation;
// ranking alone sees each visible shop's full order book.
func (s *DashboardService) Stats(user *domain.User, shopName string, now time.Time) engine.DashboardStats {
	allOrders := s.store.Orders()
	orders := engine.ScopeOrders(allOrders, user, s.store.ShopIDByName)
	afterSales := engine.ScopeAfterSales(s.store.AfterSales(), user, s.store.ShopIDByName)
	shops := engine.ScopeShops(s.store.Shops(), user)

	if shopName != "" {
		orders = filterByShop(orders, shopName, func(o domain.Order) string { return o.ShopName })
		afterSales = filterByShop(afterSales, shopName, func(a domain.AfterSale) string { return a.ShopName })
	}

	return engine.BuildDashboard(engine.DashboardInput{
		Orders:     orders,
		AfterSales: afterSales,
		AllOrders:  allOrders,
		Shops:      shops,
		ShopFilter: shopName,
		Settings:   s.store.Settings(),
		Now:        now,
		TrendDays:  s.trendDays,
	})
}

func filterByShop[T any](items []T, shopName string, nameOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if nameOf(it) == shopName {
			out = append(out, it)
		}
	}
	return out
}
