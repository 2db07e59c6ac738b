// Package store holds the memory-resident entity collections the engine
// computes over. Reads hand out copies so an in-flight computation never
// observes a concurrent write mid-way; writes swap whole entities under the
// lock.
package store

import (
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/pkg/errors"
)

// Store is the shared in-memory dataset: orders, after-sales, shops, users
// and the fulfillment settings.
type Store struct {
	mu sync.RWMutex

	orders     map[string]domain.Order
	orderSeq   []string // insertion order, for stable listings
	afterSales map[int]domain.AfterSale
	shops      map[int]domain.Shop
	shopByName map[string]int
	users      map[string]domain.User
	settings   domain.AppSettings

	nextAfterSaleID int
	nextShopID      int

	logger *zap.Logger
}

// New creates an empty store with default fulfillment settings.
func New(logger *zap.Logger) *Store {
	return &Store{
		orders:     make(map[string]domain.Order),
		afterSales: make(map[int]domain.AfterSale),
		shops:      make(map[int]domain.Shop),
		shopByName: make(map[string]int),
		users:      make(map[string]domain.User),
		settings: domain.AppSettings{
			OverduePenalty:          5,
			OverdueHours:            48,
			RiskHours:               24,
			DefaultPurchasePlatform: "拼多多",
			DefaultShippingCost:     0,
		},
		nextAfterSaleID: 100,
		nextShopID:      0,
		logger:          logger,
	}
}

// --- orders ---

// Orders returns a snapshot copy of all orders in insertion order.
func (s *Store) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Order, 0, len(s.orderSeq))
	for _, id := range s.orderSeq {
		out = append(out, copyOrder(s.orders[id]))
	}
	return out
}

// Order returns one order by id.
func (s *Store) Order(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, &errors.ErrNotFound{Resource: "order", ID: id}
	}
	return copyOrder(o), nil
}

// UpsertOrder inserts or replaces an order. The tag is normalized to the
// fixed palette on the way in.
func (s *Store) UpsertOrder(o domain.Order) {
	o.Tag = domain.NormalizeTag(string(o.Tag))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[o.ID]; !exists {
		s.orderSeq = append(s.orderSeq, o.ID)
	}
	s.orders[o.ID] = copyOrder(o)
}

// UpdateOrderTag sets the tag of an existing order.
func (s *Store) UpdateOrderTag(id, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id}
	}
	o.Tag = domain.NormalizeTag(tag)
	s.orders[id] = o
	return nil
}

// DeleteOrder removes an order; deleting an unknown id is a no-op.
func (s *Store) DeleteOrder(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return
	}
	delete(s.orders, id)
	for i, existing := range s.orderSeq {
		if existing == id {
			s.orderSeq = append(s.orderSeq[:i], s.orderSeq[i+1:]...)
			break
		}
	}
}

// --- after-sales ---

// AfterSales returns a snapshot copy of all after-sale records, ordered by id.
func (s *Store) AfterSales() []domain.AfterSale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AfterSale, 0, len(s.afterSales))
	for _, a := range s.afterSales {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SaveAfterSale inserts (id 0) or updates an after-sale record and returns
// the stored value. Ids are assigned as max+1.
func (s *Store) SaveAfterSale(a domain.AfterSale) domain.AfterSale {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.nextAfterSaleID + 1
	}
	if a.ID > s.nextAfterSaleID {
		s.nextAfterSaleID = a.ID
	}
	s.afterSales[a.ID] = a
	return a
}

// DeleteAfterSale removes a record; unknown ids are a no-op.
func (s *Store) DeleteAfterSale(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.afterSales, id)
}

// --- shops ---

// Shops returns a snapshot copy of all shops ordered by id.
func (s *Store) Shops() []domain.Shop {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Shop, 0, len(s.shops))
	for _, shop := range s.shops {
		out = append(out, shop)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ShopIDByName resolves the unique shop-name index.
func (s *Store) ShopIDByName(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.shopByName[name]
	return id, ok
}

// SaveShop inserts (id 0) or updates a shop, enforcing name uniqueness.
func (s *Store) SaveShop(shop domain.Shop) (domain.Shop, error) {
	if strings.TrimSpace(shop.Name) == "" {
		return domain.Shop{}, &errors.ErrValidation{Field: "name", Message: "shop name is required"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existingID, ok := s.shopByName[shop.Name]; ok && existingID != shop.ID {
		return domain.Shop{}, &errors.ErrValidation{Field: "name", Message: "shop name already in use"}
	}
	if shop.ID == 0 {
		shop.ID = s.nextShopID + 1
	}
	if shop.ID > s.nextShopID {
		s.nextShopID = shop.ID
	}
	if old, ok := s.shops[shop.ID]; ok && old.Name != shop.Name {
		delete(s.shopByName, old.Name)
	}
	s.shops[shop.ID] = shop
	s.shopByName[shop.Name] = shop.ID
	return shop, nil
}

// DeleteShop removes a shop; unknown ids are a no-op. Orders referencing the
// name become unattributed and fall out of scoped views.
func (s *Store) DeleteShop(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	shop, ok := s.shops[id]
	if !ok {
		return
	}
	delete(s.shops, id)
	delete(s.shopByName, shop.Name)
}

// --- users ---

// Users returns a snapshot copy of all accounts.
func (s *Store) Users() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, copyUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// UserByUsername returns one account.
func (s *Store) UserByUsername(username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return domain.User{}, &errors.ErrNotFound{Resource: "user", ID: username}
	}
	return copyUser(u), nil
}

// SaveUser inserts or replaces an account.
func (s *Store) SaveUser(u domain.User) error {
	if strings.TrimSpace(u.Username) == "" {
		return &errors.ErrValidation{Field: "username", Message: "username is required"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = copyUser(u)
	return nil
}

// DeleteUser removes an account; unknown usernames are a no-op.
func (s *Store) DeleteUser(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, username)
}

// --- settings ---

// Settings returns the current fulfillment settings.
func (s *Store) Settings() domain.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// SetSettings replaces the settings atomically. The risk threshold must stay
// strictly below the overdue threshold; timeout classification depends on it.
func (s *Store) SetSettings(settings domain.AppSettings) error {
	if settings.RiskHours >= settings.OverdueHours {
		return &errors.ErrValidation{
			Field:   "riskHours",
			Message: "riskHours must be less than overdueHours",
		}
	}
	if settings.OverdueHours <= 0 {
		return &errors.ErrValidation{Field: "overdueHours", Message: "overdueHours must be positive"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	if s.logger != nil {
		s.logger.Info("settings updated",
			zap.Float64("overdue_hours", settings.OverdueHours),
			zap.Float64("risk_hours", settings.RiskHours),
		)
	}
	return nil
}

func copyOrder(o domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

func copyUser(u domain.User) domain.User {
	ids := make([]int, len(u.AssignedShopIDs))
	copy(ids, u.AssignedShopIDs)
	u.AssignedShopIDs = ids
	return u
}
