package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nexusops/fulfillment-api/internal/domain"
)

func searchFixture() []domain.Order {
	mk := func(id, buyer, phone, address, shop string) domain.Order {
		return domain.Order{
			ID: id, Buyer: buyer, Phone: phone, Address: address, ShopName: shop,
			Status:    domain.OrderStatusPendingShip,
			OrderTime: domain.NewTime(testNow.Add(-2 * time.Hour)),
		}
	}
	o1 := mk("ORD-2024-001", "Alice Smith", "+1 555-0101", "123 Maple Ave", "Nexus Shopify 美国站")
	o1.PurchaseID = "PDD-882930102"
	o1.PurchasePlatform = "拼多多"
	o1.PurchaseNote = "补价已处理"
	o1.Items = []domain.OrderItem{{Name: "无线降噪耳机", Spec: "黑色 / 主动降噪", Price: 120, Qty: 1}}

	o2 := mk("ORD-2024-002", "Alice Jones", "+1 555-0202", "9 Amazon Rainforest Rd", "Ebay 折扣店")
	o2.Items = []domain.OrderItem{{Name: "手机保护壳", Spec: "透明", Price: 55, Qty: 1}}

	o3 := mk("ORD-2024-003", "Bob Brown", "+1 555-0303", "77 Pine Ln", "Amazon 欧洲站")
	return []domain.Order{o1, o2, o3}
}

func TestSearchAndSemantics(t *testing.T) {
	orders := searchFixture()
	settings := domain.AppSettings{RiskHours: 24, OverdueHours: 48}

	// both tokens must match the same order
	got := FilterOrders(orders, OrderFilters{Search: "ORD-2024-001 Alice", DeepSearch: true}, settings, testNow)
	assert.Len(t, got, 1)
	assert.Equal(t, "ORD-2024-001", got[0].ID)
}

func TestSearchFieldQualifierIsolation(t *testing.T) {
	orders := searchFixture()
	settings := domain.AppSettings{RiskHours: 24, OverdueHours: 48}

	// shop:Amazon must not match the order whose address mentions Amazon
	got := FilterOrders(orders, OrderFilters{Search: "shop:Amazon", DeepSearch: true}, settings, testNow)
	assert.Len(t, got, 1)
	assert.Equal(t, "ORD-2024-003", got[0].ID)

	// while an unqualified deep search reaches the address too
	got = FilterOrders(orders, OrderFilters{Search: "Amazon", DeepSearch: true}, settings, testNow)
	assert.Len(t, got, 2)
}

func TestSearchBasicVersusDeep(t *testing.T) {
	orders := searchFixture()

	// address only matches in deep mode
	o := orders[1]
	assert.False(t, MatchOrder(&o, "Rainforest", false))
	assert.True(t, MatchOrder(&o, "Rainforest", true))

	// id, buyer, phone match in both modes
	assert.True(t, MatchOrder(&o, "ORD-2024-002", false))
	assert.True(t, MatchOrder(&o, "jones", false))
	assert.True(t, MatchOrder(&o, "555-0202", false))
}

func TestSearchPurchaseAndItemQualifiers(t *testing.T) {
	orders := searchFixture()
	o := orders[0]

	// purchase: matches purchase id, platform or note
	assert.True(t, MatchOrder(&o, "purchase:PDD", true))
	assert.True(t, MatchOrder(&o, "purchase:拼多多", true))
	assert.True(t, MatchOrder(&o, "purchase:补价", true))
	assert.False(t, MatchOrder(&o, "purchase:nothere", true))

	// item: matches any item name or spec
	assert.True(t, MatchOrder(&o, "item:耳机", true))
	assert.True(t, MatchOrder(&o, "item:降噪", true))
	other := orders[2]
	assert.False(t, MatchOrder(&other, "item:耳机", true))
}

func TestSearchEmptyTermAfterQualifierMatchesAll(t *testing.T) {
	o := searchFixture()[0]
	assert.True(t, MatchOrder(&o, "shop:", true))
}

func TestTimeWindowFilter(t *testing.T) {
	settings := domain.AppSettings{RiskHours: 24, OverdueHours: 48}
	orders := []domain.Order{
		orderAged(12, domain.OrderStatusPendingShip),  // normal
		orderAged(36, domain.OrderStatusPendingShip),  // risk
		orderAged(48, domain.OrderStatusPendingShip),  // exactly overdueHours: still risk
		orderAged(72, domain.OrderStatusPendingShip),  // overdue
		orderAged(200, domain.OrderStatusShipped),     // never matches a time window
		orderAged(200, domain.OrderStatusInAfterSale), // never matches a time window
	}

	overdue := FilterOrders(orders, OrderFilters{TimeFilter: "overdue"}, settings, testNow)
	assert.Len(t, overdue, 1)

	risk := FilterOrders(orders, OrderFilters{TimeFilter: "risk"}, settings, testNow)
	assert.Len(t, risk, 2)
}

func TestStructuredFilters(t *testing.T) {
	settings := domain.AppSettings{RiskHours: 24, OverdueHours: 48}
	orders := []domain.Order{
		{ID: "A", Status: domain.OrderStatusPendingShip, Tag: domain.TagBlue, ShopName: "S1",
			PurchaseStatus: domain.PurchaseStatusNormal,
			OrderTime:      domain.NewTime(time.Date(2024, 5, 18, 8, 0, 0, 0, time.UTC))},
		{ID: "B", Status: domain.OrderStatusShipped, Tag: domain.TagRed, ShopName: "S2",
			PurchaseStatus: domain.PurchaseStatusIncrease,
			OrderTime:      domain.NewTime(time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC))},
	}

	assert.Len(t, FilterOrders(orders, OrderFilters{Status: string(domain.OrderStatusShipped)}, settings, testNow), 1)
	assert.Len(t, FilterOrders(orders, OrderFilters{Tag: "blue"}, settings, testNow), 1)
	assert.Len(t, FilterOrders(orders, OrderFilters{ShopName: "S2"}, settings, testNow), 1)
	assert.Len(t, FilterOrders(orders, OrderFilters{PurchaseStatus: "increase"}, settings, testNow), 1)
	assert.Len(t, FilterOrders(orders, OrderFilters{StartDate: "2024-05-19"}, settings, testNow), 1)
	assert.Len(t, FilterOrders(orders, OrderFilters{EndDate: "2024-05-19"}, settings, testNow), 1)
	assert.Len(t, FilterOrders(orders, OrderFilters{StartDate: "2024-05-18", EndDate: "2024-05-20"}, settings, testNow), 2)
}

func TestFilterAfterSales(t *testing.T) {
	afterSales := []domain.AfterSale{
		{ID: 101, OrderID: "ORD-2024-003", Reason: "商品收到时已损坏", ShopName: "Ebay 折扣店",
			Status: domain.AfterSaleStatusProcessing, Type: domain.AfterSaleTypeReturnRefund,
			PurchaseID: "1688-99887766", Tag: domain.TagRed},
		{ID: 102, OrderID: "ORD-2024-009", Reason: "七天无理由", ShopName: "Amazon 欧洲站",
			Status: domain.AfterSaleStatusCompleted, Type: domain.AfterSaleTypeRefundOnly},
	}

	assert.Len(t, FilterAfterSales(afterSales, AfterSaleFilters{Search: "1688"}), 1)
	assert.Len(t, FilterAfterSales(afterSales, AfterSaleFilters{Search: "损坏"}), 1)
	assert.Len(t, FilterAfterSales(afterSales, AfterSaleFilters{Status: string(domain.AfterSaleStatusCompleted)}), 1)
	assert.Len(t, FilterAfterSales(afterSales, AfterSaleFilters{Type: string(domain.AfterSaleTypeReturnRefund)}), 1)
	assert.Len(t, FilterAfterSales(afterSales, AfterSaleFilters{Tag: "red"}), 1)
	assert.Len(t, FilterAfterSales(afterSales, AfterSaleFilters{ShopName: "Ebay 折扣店"}), 1)
	assert.Len(t, FilterAfterSales(afterSales, AfterSaleFilters{}), 2)
}
