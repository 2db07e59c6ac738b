package engine

import (
	"strings"
	"time"

	"github.com/nexusops/fulfillment-api/internal/domain"
)

// OrderFilters is the inbound query shape for order listing. Zero values
// mean "no constraint". Search text is tokenized on whitespace and every
// token must match (AND semantics).
type OrderFilters struct {
	Page           int
	PageSize       int
	Status         string
	Search         string
	DeepSearch     bool
	Tag            string
	PurchaseStatus string
	StartDate      string // inclusive, YYYY-MM-DD
	EndDate        string // inclusive, YYYY-MM-DD
	ShopName       string
	TimeFilter     string // "overdue" | "risk"
}

// AfterSaleFilters is the inbound query shape for after-sales listing.
type AfterSaleFilters struct {
	Search         string
	Status         string
	Type           string
	ShopName       string
	Tag            string
	PurchaseStatus string
}

var searchKeys = map[string]bool{
	"id": true, "buyer": true, "contact": true, "phone": true,
	"addr": true, "address": true, "item": true, "shop": true,
	"status": true, "tag": true, "purchase": true, "logistics": true,
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// matchToken checks one already-lowercased search token against an order.
// A token may carry a key: prefix to restrict it to a single field; an
// unqualified token matches the basic or deep default field set.
func matchToken(o *domain.Order, token string, deep bool) bool {
	key := ""
	term := token
	if before, after, found := strings.Cut(token, ":"); found && searchKeys[before] {
		key = before
		term = after
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}

	itemsMatch := func() bool {
		for _, it := range o.Items {
			if contains(it.Name, term) || contains(it.Spec, term) {
				return true
			}
		}
		return false
	}

	switch key {
	case "id":
		return contains(o.ID, term)
	case "buyer":
		return contains(o.Buyer, term)
	case "contact":
		return contains(o.Contact, term)
	case "phone":
		return contains(o.Phone, term)
	case "addr", "address":
		return contains(o.Address, term)
	case "item":
		return itemsMatch()
	case "shop":
		return contains(o.ShopName, term)
	case "status":
		return contains(string(o.Status), term)
	case "tag":
		return contains(string(o.Tag), term)
	case "purchase":
		return contains(o.PurchaseID, term) ||
			contains(o.PurchasePlatform, term) ||
			contains(o.PurchaseNote, term)
	case "logistics":
		return contains(o.PurchaseLogisticsID, term)
	}

	if !deep {
		return contains(o.ID, term) || contains(o.Buyer, term) || contains(o.Phone, term)
	}
	return contains(o.ID, term) ||
		contains(o.Buyer, term) ||
		contains(o.Contact, term) ||
		contains(o.Phone, term) ||
		contains(o.Address, term) ||
		contains(string(o.Status), term) ||
		contains(o.ShopName, term) ||
		contains(string(o.Tag), term) ||
		contains(o.PurchaseID, term) ||
		contains(o.PurchasePlatform, term) ||
		contains(o.PurchaseLogisticsID, term) ||
		contains(o.PurchaseNote, term) ||
		itemsMatch()
}

// MatchOrder reports whether an order satisfies a free-text query.
func MatchOrder(o *domain.Order, query string, deep bool) bool {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	for _, t := range tokens {
		if !matchToken(o, t, deep) {
			return false
		}
	}
	return true
}

// FilterOrders applies every structured filter plus the text search to an
// already access-scoped order set. The time-window filter only ever matches
// pending-ship orders.
func FilterOrders(orders []domain.Order, f OrderFilters, s domain.AppSettings, now time.Time) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		if f.ShopName != "" && o.ShopName != f.ShopName {
			continue
		}
		if f.Status != "" && string(o.Status) != f.Status {
			continue
		}
		if f.Tag != "" && string(o.Tag) != f.Tag {
			continue
		}
		if f.PurchaseStatus != "" && string(o.PurchaseStatus) != f.PurchaseStatus {
			continue
		}
		if f.StartDate != "" && o.OrderTime.DateString() < f.StartDate {
			continue
		}
		if f.EndDate != "" && o.OrderTime.DateString() > f.EndDate {
			continue
		}
		if f.Search != "" && !MatchOrder(o, f.Search, f.DeepSearch) {
			continue
		}
		if f.TimeFilter != "" && !matchTimeWindow(o, f.TimeFilter, s, now) {
			continue
		}
		out = append(out, *o)
	}
	return out
}

func matchTimeWindow(o *domain.Order, window string, s domain.AppSettings, now time.Time) bool {
	if o.Status != domain.OrderStatusPendingShip {
		return false
	}
	age := OrderAgeHours(o, now)
	switch window {
	case "overdue":
		return age > s.OverdueHours
	case "risk":
		return age > s.RiskHours && age <= s.OverdueHours
	default:
		return true
	}
}

// FilterAfterSales applies the after-sales structured filters and the
// narrower after-sales text search (order id, purchase id, reason, shop).
func FilterAfterSales(afterSales []domain.AfterSale, f AfterSaleFilters) []domain.AfterSale {
	low := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]domain.AfterSale, 0, len(afterSales))
	for i := range afterSales {
		a := &afterSales[i]
		if f.ShopName != "" && a.ShopName != f.ShopName {
			continue
		}
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		if f.Type != "" && string(a.Type) != f.Type {
			continue
		}
		if f.Tag != "" && string(a.Tag) != f.Tag {
			continue
		}
		if f.PurchaseStatus != "" && string(a.PurchaseStatus) != f.PurchaseStatus {
			continue
		}
		if low != "" &&
			!contains(a.OrderID, low) &&
			!contains(a.PurchaseID, low) &&
			!contains(a.Reason, low) &&
			!contains(a.ShopName, low) {
			continue
		}
		out = append(out, *a)
	}
	return out
}
