package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nexusops/fulfillment-api/internal/domain"
)

var testShops = map[string]int{
	"Nexus Shopify 美国站": 1,
	"Amazon 欧洲站":        2,
	"Ebay 折扣店":          3,
}

func testResolver(name string) (int, bool) {
	id, ok := testShops[name]
	return id, ok
}

func ordersForShops(names ...string) []domain.Order {
	out := make([]domain.Order, 0, len(names))
	for i, name := range names {
		out = append(out, domain.Order{ID: string(rune('A' + i)), ShopName: name})
	}
	return out
}

func TestScopeAdminSeesEverything(t *testing.T) {
	orders := ordersForShops("Nexus Shopify 美国站", "Amazon 欧洲站", "unknown shop")
	admin := &domain.User{Username: "admin", Role: domain.RoleAdmin}

	assert.Equal(t, orders, ScopeOrders(orders, admin, testResolver))
}

func TestScopeViewAllShopsOverridesAssignment(t *testing.T) {
	orders := ordersForShops("Nexus Shopify 美国站", "Amazon 欧洲站")
	user := &domain.User{
		Username:        "manager",
		Role:            domain.RoleUser,
		AssignedShopIDs: []int{3}, // assignment is irrelevant with the override
		Permissions:     domain.UserPermissions{ViewAllShops: true},
	}

	assert.Equal(t, orders, ScopeOrders(orders, user, testResolver))
}

func TestScopeFailClosed(t *testing.T) {
	orders := ordersForShops("Nexus Shopify 美国站", "Amazon 欧洲站")
	user := &domain.User{Username: "empty", Role: domain.RoleUser}

	assert.Empty(t, ScopeOrders(orders, user, testResolver))
}

func TestScopeKeepsOnlyAssignedShops(t *testing.T) {
	orders := ordersForShops("Nexus Shopify 美国站", "Amazon 欧洲站", "Ebay 折扣店")
	user := &domain.User{Username: "ops", Role: domain.RoleUser, AssignedShopIDs: []int{1, 3}}

	scoped := ScopeOrders(orders, user, testResolver)
	assert.Len(t, scoped, 2)
	assert.Equal(t, "Nexus Shopify 美国站", scoped[0].ShopName)
	assert.Equal(t, "Ebay 折扣店", scoped[1].ShopName)
}

func TestScopeExcludesUnresolvableShopNames(t *testing.T) {
	orders := ordersForShops("deleted shop")
	user := &domain.User{Username: "ops", Role: domain.RoleUser, AssignedShopIDs: []int{1}}

	assert.Empty(t, ScopeOrders(orders, user, testResolver))
}

func TestScopeIdempotent(t *testing.T) {
	orders := ordersForShops("Nexus Shopify 美国站", "Amazon 欧洲站", "Ebay 折扣店")
	user := &domain.User{Username: "ops", Role: domain.RoleUser, AssignedShopIDs: []int{2}}

	once := ScopeOrders(orders, user, testResolver)
	twice := ScopeOrders(once, user, testResolver)
	assert.Equal(t, once, twice)
}

func TestScopeShops(t *testing.T) {
	shops := []domain.Shop{
		{ID: 1, Name: "Nexus Shopify 美国站"},
		{ID: 2, Name: "Amazon 欧洲站"},
		{ID: 3, Name: "Ebay 折扣店"},
	}
	user := &domain.User{Username: "ops", Role: domain.RoleUser, AssignedShopIDs: []int{2}}

	scoped := ScopeShops(shops, user)
	assert.Len(t, scoped, 1)
	assert.Equal(t, 2, scoped[0].ID)
}

func TestScopeAfterSalesUsesSnapshotShopName(t *testing.T) {
	afterSales := []domain.AfterSale{
		{ID: 101, ShopName: "Ebay 折扣店"},
		{ID: 102, ShopName: "Amazon 欧洲站"},
		{ID: 103, ShopName: ""}, // no snapshot: excluded for scoped users
	}
	user := &domain.User{Username: "ops", Role: domain.RoleUser, AssignedShopIDs: []int{3}}

	scoped := ScopeAfterSales(afterSales, user, testResolver)
	assert.Len(t, scoped, 1)
	assert.Equal(t, 101, scoped[0].ID)
}
