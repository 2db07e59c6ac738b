// Package engine is the computation core of the dashboard: permission
// scoping, tokenized search, profit/risk calculation and aggregation.
// Every function is pure over (entities, settings, now); the store hands
// in snapshot copies, so nothing here locks or mutates shared state.
package engine

import "github.com/nexusops/fulfillment-api/internal/domain"

// ShopResolver resolves a shop name to its id. The second return is false
// when the name does not belong to any known shop.
type ShopResolver func(name string) (int, bool)

// Scope narrows a slice of entities to the ones the acting user may see.
//
// Admins and viewAllShops accounts see everything. A user-role account with
// no shop assignment sees nothing (fail closed). Otherwise an entity is kept
// only when its shop name resolves to an assigned shop id; unresolvable
// names are excluded. The same predicate serves orders, after-sales and
// shops so scoping cannot drift between call sites.
func Scope[T any](items []T, user *domain.User, shopName func(T) string, resolve ShopResolver) []T {
	if user.HasGlobalView() {
		return items
	}
	if user == nil || len(user.AssignedShopIDs) == 0 {
		return []T{}
	}
	assigned := make(map[int]bool, len(user.AssignedShopIDs))
	for _, id := range user.AssignedShopIDs {
		assigned[id] = true
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		id, ok := resolve(shopName(it))
		if ok && assigned[id] {
			out = append(out, it)
		}
	}
	return out
}

// ScopeOrders applies Scope to orders.
func ScopeOrders(orders []domain.Order, user *domain.User, resolve ShopResolver) []domain.Order {
	return Scope(orders, user, func(o domain.Order) string { return o.ShopName }, resolve)
}

// ScopeAfterSales applies Scope to after-sale records via their snapshot
// shop name.
func ScopeAfterSales(afterSales []domain.AfterSale, user *domain.User, resolve ShopResolver) []domain.AfterSale {
	return Scope(afterSales, user, func(a domain.AfterSale) string { return a.ShopName }, resolve)
}

// ScopeShops narrows the shop list itself, e.g. for filter dropdowns.
func ScopeShops(shops []domain.Shop, user *domain.User) []domain.Shop {
	return Scope(shops, user,
		func(s domain.Shop) string { return s.Name },
		func(name string) (int, bool) {
			for _, s := range shops {
				if s.Name == name {
					return s.ID, true
				}
			}
			return 0, false
		})
}

// CanSeeShop reports whether the user may see data attributed to shopID.
func CanSeeShop(user *domain.User, shopID int) bool {
	if user.HasGlobalView() {
		return true
	}
	if user == nil {
		return false
	}
	for _, id := range user.AssignedShopIDs {
		if id == shopID {
			return true
		}
	}
	return false
}
