package service

import (
	"time"

	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/internal/engine"
	"github.com/nexusops/fulfillment-api/internal/store"
	"github.com/nexusops/fulfillment-api/pkg/errors"
)

type AfterSaleService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAfterSaleService creates a new after-sale service
func NewAfterSaleService(st *store.Store, logger *zap.Logger) *AfterSaleService {
	return &AfterSaleService{store: st, logger: logger}
}

// List returns the access-scoped, filtered after-sales listing. Tag and
// purchase status are read live from the parent order on every call; the
// snapshot fields stay as captured at creation.
func (s *AfterSaleService) List(user *domain.User, f engine.AfterSaleFilters) []domain.AfterSale {
	enriched := s.enrich(s.store.AfterSales())
	scoped := engine.ScopeAfterSales(enriched, user, s.store.ShopIDByName)
	return engine.FilterAfterSales(scoped, f)
}

func (s *AfterSaleService) enrich(afterSales []domain.AfterSale) []domain.AfterSale {
	for i := range afterSales {
		order, err := s.store.Order(afterSales[i].OrderID)
		if err != nil {
			// dangling order_id: keep the snapshot record as-is
			afterSales[i].Tag = domain.TagNone
			afterSales[i].PurchaseStatus = domain.PurchaseStatusUnset
			continue
		}
		afterSales[i].Tag = order.Tag
		afterSales[i].PurchaseStatus = order.PurchaseStatus
	}
	return afterSales
}

// Save creates or updates an after-sale workflow. On creation the parent
// order's shop name, sell price, purchase cost and purchase id are copied in
// once and never refreshed afterwards.
func (s *AfterSaleService) Save(user *domain.User, p AfterSalePayload, now time.Time) (domain.AfterSale, error) {
	if !user.Can(func(perm domain.UserPermissions) bool { return perm.ManageOrders }) {
		return domain.AfterSale{}, &errors.ErrForbidden{Action: "manage after-sales"}
	}

	record := domain.AfterSale{
		ID:                   p.ID,
		OrderID:              p.OrderID,
		Type:                 domain.AfterSaleType(p.Type),
		Status:               domain.AfterSaleStatus(p.Status),
		RefundAmount:         float64(p.RefundAmount),
		UpstreamRefundAmount: float64(p.UpstreamRefundAmount),
		UpstreamStatus:       domain.UpstreamStatus(p.UpstreamStatus),
		Reason:               p.Reason,
		LogisticsCompany:     p.LogisticsCompany,
		LogisticsID:          p.LogisticsID,
	}
	if record.Status == "" {
		record.Status = domain.AfterSaleStatusProcessing
	}
	if record.UpstreamStatus == "" {
		record.UpstreamStatus = domain.UpstreamStatusPending
	}

	createdAt, err := domain.ParseTime(p.CreatedAt)
	if err != nil || createdAt.IsZero() {
		createdAt = domain.NewTime(now)
	}
	record.CreatedAt = createdAt

	if p.ID == 0 {
		// snapshot the parent order at creation time
		if order, err := s.store.Order(p.OrderID); err == nil {
			record.ShopName = order.ShopName
			record.SellPrice = order.SellPrice
			record.PurchaseCost = order.PurchaseCost
			record.PurchaseID = order.PurchaseID
		} else {
			s.logger.Warn("after-sale references unknown order",
				zap.String("order_id", p.OrderID),
			)
		}
	} else {
		// keep the existing snapshot and creation time on update
		for _, existing := range s.store.AfterSales() {
			if existing.ID == p.ID {
				record.ShopName = existing.ShopName
				record.SellPrice = existing.SellPrice
				record.PurchaseCost = existing.PurchaseCost
				record.PurchaseID = existing.PurchaseID
				if p.CreatedAt == "" {
					record.CreatedAt = existing.CreatedAt
				}
				break
			}
		}
	}

	return s.store.SaveAfterSale(record), nil
}

// Delete removes an after-sale record; unknown ids are a no-op.
func (s *AfterSaleService) Delete(user *domain.User, id int) error {
	if !user.Can(func(perm domain.UserPermissions) bool { return perm.ManageOrders }) {
		return &errors.ErrForbidden{Action: "manage after-sales"}
	}
	s.store.DeleteAfterSale(id)
	return nil
}
