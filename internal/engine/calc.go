package engine

import (
	"strings"
	"time"

	"github.com/nexusops/fulfillment-api/internal/domain"
)

// TimeoutLevel classifies how close an unshipped order is to breaching the
// fulfillment deadline.
type TimeoutLevel string

const (
	TimeoutNormal  TimeoutLevel = "normal"
	TimeoutAtRisk  TimeoutLevel = "at_risk"
	TimeoutOverdue TimeoutLevel = "overdue"
)

// PurchaseClass is the derived purchasing state of an order.
type PurchaseClass string

const (
	PurchasePurchased     PurchaseClass = "purchased"
	PurchaseNotPurchased  PurchaseClass = "not_purchased"
	PurchasePriceIncrease PurchaseClass = "price_increase"
	PurchasePriceDecrease PurchaseClass = "price_decrease"
)

// OrderAgeHours returns how old the order is at the given instant, in hours.
func OrderAgeHours(o *domain.Order, now time.Time) float64 {
	return now.UTC().Sub(o.OrderTime.Time).Hours()
}

// OrderProfit computes the per-order profit: sell price minus purchase cost
// minus the configured default shipping cost, minus the overdue penalty when
// a pending-ship order has aged past the overdue threshold.
func OrderProfit(o *domain.Order, s domain.AppSettings, now time.Time) float64 {
	p := o.SellPrice - o.PurchaseCost - s.DefaultShippingCost
	if o.Status == domain.OrderStatusPendingShip && OrderAgeHours(o, now) > s.OverdueHours {
		p -= s.OverduePenalty
	}
	return p
}

// ClassifyTimeout tiers a pending-ship order by age. Both boundaries are
// strict: age exactly riskHours is still normal, exactly overdueHours is
// still at_risk. Orders in any other status are always normal.
func ClassifyTimeout(o *domain.Order, s domain.AppSettings, now time.Time) TimeoutLevel {
	if o.Status != domain.OrderStatusPendingShip {
		return TimeoutNormal
	}
	age := OrderAgeHours(o, now)
	switch {
	case age > s.OverdueHours:
		return TimeoutOverdue
	case age > s.RiskHours:
		return TimeoutAtRisk
	default:
		return TimeoutNormal
	}
}

// ClassifyPurchase derives the purchasing state. Priority order matters:
// explicit increase/decrease/normal win, then the legacy fallback treats a
// record with a purchase id but no status as purchased.
func ClassifyPurchase(o *domain.Order) PurchaseClass {
	switch o.PurchaseStatus {
	case domain.PurchaseStatusIncrease:
		return PurchasePriceIncrease
	case domain.PurchaseStatusDecrease:
		return PurchasePriceDecrease
	case domain.PurchaseStatusNormal:
		return PurchasePurchased
	}
	if o.PurchaseStatus == domain.PurchaseStatusUnset && strings.TrimSpace(o.PurchaseID) != "" {
		return PurchasePurchased
	}
	return PurchaseNotPurchased
}
