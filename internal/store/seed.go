package store

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nexusops/fulfillment-api/internal/domain"
)

// SeedDemo loads the demo dataset used when no Postgres source is
// configured: three shops, three accounts and a handful of orders spread
// across the timeout tiers relative to now.
func (s *Store) SeedDemo(now time.Time) error {
	shops := []domain.Shop{
		{ID: 1, Name: "Nexus Shopify 美国站", CompanyName: "Nexus Tech LLC", ShopPassword: "password123", Note: "主营店铺"},
		{ID: 2, Name: "Amazon 欧洲站", CompanyName: "Global Trade Ltd", ShopPassword: "securepass", Note: "电子产品类目"},
		{ID: 3, Name: "Ebay 折扣店", CompanyName: "Outlet Deals Inc", ShopPassword: "ebay2024", Note: "清仓商品"},
	}
	for _, shop := range shops {
		if _, err := s.SaveShop(shop); err != nil {
			return err
		}
	}

	users := []struct {
		user     domain.User
		password string
	}{
		{
			user: domain.User{
				Username: "admin", Name: "超级管理员", Role: domain.RoleAdmin,
				Permissions: domain.UserPermissions{ManageOrders: true, ViewDashboard: true, ManageSettings: true, ViewAllShops: true},
			},
			password: "admin",
		},
		{
			user: domain.User{
				Username: "user", Name: "运营专员(演示)", Role: domain.RoleUser,
				AssignedShopIDs: []int{1},
				Permissions:     domain.UserPermissions{ManageOrders: true, ViewDashboard: true},
			},
			password: "user",
		},
		{
			user: domain.User{
				Username: "manager", Name: "店铺主管", Role: domain.RoleUser,
				AssignedShopIDs: []int{1},
				Permissions:     domain.UserPermissions{ManageOrders: true, ViewDashboard: true, ManageSettings: true, ViewAllShops: true},
			},
			password: "manager",
		},
	}
	for _, entry := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(entry.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		entry.user.PasswordHash = string(hash)
		if err := s.SaveUser(entry.user); err != nil {
			return err
		}
	}

	ago := func(hours float64) domain.Time {
		return domain.NewTime(now.Add(-time.Duration(hours * float64(time.Hour))))
	}

	orders := []domain.Order{
		{
			ID: "ORD-2024-001", Buyer: "Alice Smith", Status: domain.OrderStatusPendingShip,
			Contact: "Alice", Phone: "+1 555-0101", Address: "123 Maple Ave, Springfield, IL",
			PurchaseID: "PDD-882930102", PurchaseCost: 45, SellPrice: 120,
			ShopName: "Nexus Shopify 美国站", Tag: domain.TagBlue,
			PurchaseStatus: domain.PurchaseStatusNormal, PurchasePlatform: "拼多多",
			OrderTime: ago(72), // overdue
			Items:     []domain.OrderItem{{Name: "无线降噪耳机", Spec: "黑色 / 主动降噪", Price: 120, Qty: 1, Img: "https://picsum.photos/seed/p1/100"}},
		},
		{
			ID: "ORD-2024-002", Buyer: "Bob Jones", Status: domain.OrderStatusShipped,
			Contact: "Bob", Phone: "+1 555-0102", Address: "456 Oak Dr, Austin, TX",
			PurchaseID: "TB-12345678", PurchaseCost: 20, SellPrice: 55,
			ShopName: "Amazon 欧洲站", Tag: domain.TagGreen,
			PurchaseStatus: domain.PurchaseStatusNormal, PurchasePlatform: "淘宝",
			OrderTime: ago(24),
			Items:     []domain.OrderItem{{Name: "手机保护壳", Spec: "iPhone 15 / 透明", Price: 55, Qty: 1, Img: "https://picsum.photos/seed/p2/100"}},
		},
		{
			ID: "ORD-2024-003", Buyer: "Charlie Day", Status: domain.OrderStatusInAfterSale,
			Contact: "Charlie", Phone: "+1 555-0103", Address: "789 Pine Ln, Seattle, WA",
			PurchaseID: "1688-99887766", PurchaseCost: 80, SellPrice: 80,
			ShopName: "Ebay 折扣店", Tag: domain.TagRed,
			PurchaseStatus: domain.PurchaseStatusIncrease, PurchaseDiff: 5, PurchasePlatform: "1688",
			OrderTime: ago(96),
			Items:     []domain.OrderItem{{Name: "机械键盘", Spec: "青轴 / RGB背光", Price: 80, Qty: 1, Img: "https://picsum.photos/seed/p3/100"}},
		},
		{
			ID: "ORD-2024-004", Buyer: "Diana Prince", Status: domain.OrderStatusCompleted,
			Contact: "Diana", Phone: "+1 555-0104", Address: "101 Wonder Blvd, Metropolis, NY",
			PurchaseID: "DY-55667788", PurchaseCost: 150, SellPrice: 300,
			ShopName: "Nexus Shopify 美国站", Tag: domain.TagPurple,
			PurchaseStatus: domain.PurchaseStatusNormal, PurchasePlatform: "抖音",
			OrderTime: ago(120),
			Items:     []domain.OrderItem{{Name: "智能手表", Spec: "Series 9 / 银色", Price: 300, Qty: 1, Img: "https://picsum.photos/seed/p4/100"}},
		},
		{
			ID: "ORD-2024-005", Buyer: "Evan Stone", Status: domain.OrderStatusPendingShip,
			Contact: "Evan", Phone: "+1 555-0105", Address: "202 Cedar St, Miami, FL",
			PurchaseID: "TB-87654321", PurchaseCost: 25, SellPrice: 60,
			ShopName: "Nexus Shopify 美国站", Tag: domain.TagBlue, PurchasePlatform: "淘宝",
			OrderTime: ago(36), // at risk
			Items:     []domain.OrderItem{{Name: "Type-C 数据线", Spec: "2米 / 编织", Price: 60, Qty: 2, Img: "https://picsum.photos/seed/p5/100"}},
		},
		{
			ID: "ORD-2024-006", Buyer: "Fiona Gallagher", Status: domain.OrderStatusShipped,
			Contact: "Fiona", Phone: "+1 555-0106", Address: "303 Birch Rd, Chicago, IL",
			PurchaseID: "PDD-11223344", PurchaseCost: 100, SellPrice: 220,
			ShopName: "Amazon 欧洲站", PurchasePlatform: "拼多多",
			OrderTime: ago(48),
			Items:     []domain.OrderItem{{Name: "蓝牙音箱", Spec: "防水 / 黑色", Price: 220, Qty: 1, Img: "https://picsum.photos/seed/p6/100"}},
		},
		{
			ID: "ORD-2024-007", Buyer: "George Lucas", Status: domain.OrderStatusPendingShip,
			Contact: "George", Phone: "+1 555-0107", Address: "404 Error Way, Internet, CA",
			PurchaseCost: 0, SellPrice: 45,
			ShopName: "Nexus Shopify 美国站", Tag: domain.TagOrange,
			PurchaseStatus: domain.PurchaseStatusNotPurchased,
			OrderTime:      ago(12),
			Items:          []domain.OrderItem{{Name: "USB-C 扩展坞", Spec: "5合1", Price: 45, Qty: 1, Img: "https://picsum.photos/seed/p7/100"}},
		},
	}
	for _, o := range orders {
		s.UpsertOrder(o)
	}

	s.SaveAfterSale(domain.AfterSale{
		ID:                   101,
		OrderID:              "ORD-2024-003",
		Type:                 domain.AfterSaleTypeReturnRefund,
		Status:               domain.AfterSaleStatusProcessing,
		RefundAmount:         80,
		UpstreamRefundAmount: 75,
		UpstreamStatus:       domain.UpstreamStatusRefunded,
		Reason:               "商品收到时已损坏",
		CreatedAt:            ago(24),
		ShopName:             "Ebay 折扣店",
		SellPrice:            80,
		PurchaseCost:         80,
		PurchaseID:           "1688-99887766",
	})

	return nil
}
