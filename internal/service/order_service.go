package service

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/internal/engine"
	"github.com/nexusops/fulfillment-api/internal/store"
	"github.com/nexusops/fulfillment-api/pkg/errors"
)

type OrderService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(st *store.Store, logger *zap.Logger) *OrderService {
	return &OrderService{store: st, logger: logger}
}

// List returns the access-scoped, filtered, paged order listing.
func (s *OrderService) List(user *domain.User, f engine.OrderFilters, now time.Time) OrderPage {
	scoped := engine.ScopeOrders(s.store.Orders(), user, s.store.ShopIDByName)
	filtered := engine.FilterOrders(scoped, f, s.store.Settings(), now)

	page, pageSize := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = len(filtered)
		if pageSize == 0 {
			pageSize = 1
		}
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	items := []domain.Order{}
	if start < len(filtered) {
		if end > len(filtered) {
			end = len(filtered)
		}
		items = filtered[start:end]
	}

	return OrderPage{Items: items, Total: len(filtered), Page: page, PageSize: pageSize}
}

// Get returns one order if it exists and is visible to the acting user.
// Out-of-scope orders read as not found, never as a permission error.
func (s *OrderService) Get(user *domain.User, id string) (domain.Order, error) {
	o, err := s.store.Order(id)
	if err != nil {
		return domain.Order{}, err
	}
	visible := engine.ScopeOrders([]domain.Order{o}, user, s.store.ShopIDByName)
	if len(visible) == 0 {
		return domain.Order{}, &errors.ErrNotFound{Resource: "order", ID: id}
	}
	return visible[0], nil
}

// Sync upserts a batch of order records from ingestion or edit forms.
// Records without an id get one assigned.
func (s *OrderService) Sync(user *domain.User, payloads []OrderPayload) (int, error) {
	if !user.Can(func(p domain.UserPermissions) bool { return p.ManageOrders }) {
		return 0, &errors.ErrForbidden{Action: "manage orders"}
	}
	accepted := 0
	for _, p := range payloads {
		order, err := p.ToDomain()
		if err != nil {
			s.logger.Warn("skipping order with bad timestamp",
				zap.String("order_id", p.ID),
				zap.Error(err),
			)
			continue
		}
		if order.Status != "" && !order.Status.IsValid() {
			return accepted, &errors.ErrValidation{Field: "status", Message: "unknown order status"}
		}
		if order.ID == "" {
			order.ID = "ORD-" + uuid.NewString()
		}
		s.store.UpsertOrder(order)
		accepted++
	}
	return accepted, nil
}

// UpdateTag sets an order's triage tag, normalized to the palette.
func (s *OrderService) UpdateTag(user *domain.User, id, tag string) error {
	if !user.Can(func(p domain.UserPermissions) bool { return p.ManageOrders }) {
		return &errors.ErrForbidden{Action: "manage orders"}
	}
	return s.store.UpdateOrderTag(id, tag)
}

// Delete removes an order. Admin-only; deleting an unknown id is a no-op.
func (s *OrderService) Delete(user *domain.User, id string) error {
	if !user.IsAdmin() {
		return &errors.ErrForbidden{Action: "delete orders"}
	}
	s.store.DeleteOrder(id)
	return nil
}
