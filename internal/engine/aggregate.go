package engine

import (
	"math"
	"sort"
	"time"

	"github.com/nexusops/fulfillment-api/internal/domain"
)

// DefaultTrendDays is the trailing window for the daily trend and for
// period-over-period growth when no override is configured.
const DefaultTrendDays = 5

// KPISummary is the headline metric block of the dashboard.
type KPISummary struct {
	TotalOrders       int     `json:"total_orders"`
	OrdersGrowth      float64 `json:"orders_growth"`
	TotalSales        float64 `json:"total_sales"`
	SalesGrowth       float64 `json:"sales_growth"`
	TotalCost         float64 `json:"total_cost"`
	CostGrowth        float64 `json:"cost_growth"`
	NetProfit         float64 `json:"net_profit"`
	ProfitGrowth      float64 `json:"profit_growth"`
	ProfitMargin      float64 `json:"profit_margin"`
	MarginGrowth      float64 `json:"margin_growth"`
	PendingShip       int     `json:"pending_ship"`
	RefundRate        float64 `json:"refund_rate"`
	RefundGrowth      float64 `json:"refund_growth"`
	OverdueOrders     int     `json:"overdue_orders"`
	TimeoutRisk       int     `json:"timeout_risk"`
	UnpurchasedOrders int     `json:"unpurchased_orders"`
}

// TrendPoint is one calendar-day bucket of the daily trend.
type TrendPoint struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Sales   float64 `json:"sales"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
	Refunds int     `json:"refunds"`
}

// ShopRank is one entry of the per-shop profit ranking.
type ShopRank struct {
	ShopName    string  `json:"shopName"`
	Count       int     `json:"count"`
	GrossProfit float64 `json:"gross_profit"`
}

// ProductStat is one best-seller entry.
type ProductStat struct {
	Name    string  `json:"name"`
	Img     string  `json:"img"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
	Trend   string  `json:"trend"` // up | down | flat
}

// PlatformShare is one slice of the purchase-platform distribution.
type PlatformShare struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// DashboardStats is the full dashboard response.
type DashboardStats struct {
	KPI                  KPISummary      `json:"kpi"`
	DailyTrend           []TrendPoint    `json:"daily_trend"`
	ShopRanking          []ShopRank      `json:"shop_ranking"`
	BestSellers          []ProductStat   `json:"best_sellers"`
	PlatformDistribution []PlatformShare `json:"platform_distribution"`
}

// DashboardInput carries everything BuildDashboard needs. Orders and
// AfterSales are already access-scoped (and shop-filtered when ShopFilter is
// set). AllOrders is the unscoped order set: shop ranking sums each visible
// shop over its full order book, not the acting user's slice of it.
type DashboardInput struct {
	Orders     []domain.Order
	AfterSales []domain.AfterSale
	AllOrders  []domain.Order
	Shops      []domain.Shop // only shops the acting user may see
	ShopFilter string
	Settings   domain.AppSettings
	Now        time.Time
	TrendDays  int
}

// BuildDashboard folds the scoped entity set into the dashboard response.
func BuildDashboard(in DashboardInput) DashboardStats {
	if in.TrendDays <= 0 {
		in.TrendDays = DefaultTrendDays
	}
	return DashboardStats{
		KPI:                  buildKPI(in),
		DailyTrend:           buildDailyTrend(in),
		ShopRanking:          buildShopRanking(in),
		BestSellers:          buildBestSellers(in),
		PlatformDistribution: buildPlatformDistribution(in),
	}
}

func buildKPI(in DashboardInput) KPISummary {
	kpi := KPISummary{TotalOrders: len(in.Orders)}

	for i := range in.Orders {
		o := &in.Orders[i]
		kpi.TotalSales += o.SellPrice
		kpi.TotalCost += o.PurchaseCost
		kpi.NetProfit += OrderProfit(o, in.Settings, in.Now)

		if o.Status != domain.OrderStatusPendingShip {
			continue
		}
		kpi.PendingShip++
		switch ClassifyTimeout(o, in.Settings, in.Now) {
		case TimeoutOverdue:
			kpi.OverdueOrders++
		case TimeoutAtRisk:
			kpi.TimeoutRisk++
		}
		if ClassifyPurchase(o) == PurchaseNotPurchased {
			kpi.UnpurchasedOrders++
		}
	}

	if kpi.TotalSales > 0 {
		kpi.ProfitMargin = kpi.NetProfit / kpi.TotalSales * 100
	}
	if kpi.TotalOrders > 0 {
		kpi.RefundRate = float64(len(in.AfterSales)) / float64(kpi.TotalOrders) * 100
	}

	fillGrowth(&kpi, in)
	return kpi
}

// periodTotals sums window metrics for growth comparison.
type periodTotals struct {
	orders  int
	sales   float64
	cost    float64
	profit  float64
	refunds int
}

func (p periodTotals) margin() float64 {
	if p.sales == 0 {
		return 0
	}
	return p.profit / p.sales * 100
}

func (p periodTotals) refundRate() float64 {
	if p.orders == 0 {
		return 0
	}
	return float64(p.refunds) / float64(p.orders) * 100
}

// fillGrowth compares the trailing TrendDays window against the equal-length
// window immediately before it. An empty previous window reports 0.
func fillGrowth(kpi *KPISummary, in DashboardInput) {
	curStart := dayString(in.Now, -(in.TrendDays - 1))
	prevStart := dayString(in.Now, -(2*in.TrendDays - 1))
	var cur, prev periodTotals

	for i := range in.Orders {
		o := &in.Orders[i]
		d := o.OrderTime.DateString()
		bucket := bucketFor(d, prevStart, curStart, dayString(in.Now, 0), &cur, &prev)
		if bucket == nil {
			continue
		}
		bucket.orders++
		bucket.sales += o.SellPrice
		bucket.cost += o.PurchaseCost
		bucket.profit += OrderProfit(o, in.Settings, in.Now)
	}
	for i := range in.AfterSales {
		d := in.AfterSales[i].CreatedAt.DateString()
		if bucket := bucketFor(d, prevStart, curStart, dayString(in.Now, 0), &cur, &prev); bucket != nil {
			bucket.refunds++
		}
	}

	kpi.OrdersGrowth = growthPercent(float64(cur.orders), float64(prev.orders))
	kpi.SalesGrowth = growthPercent(cur.sales, prev.sales)
	kpi.CostGrowth = growthPercent(cur.cost, prev.cost)
	kpi.ProfitGrowth = growthPercent(cur.profit, prev.profit)
	// margin and refund rate are already percentages; growth is the delta in points
	kpi.MarginGrowth = round2(cur.margin() - prev.margin())
	kpi.RefundGrowth = round2(cur.refundRate() - prev.refundRate())
}

func bucketFor(date, prevStart, curStart, today string, cur, prev *periodTotals) *periodTotals {
	switch {
	case date >= curStart && date <= today:
		return cur
	case date >= prevStart && date < curStart:
		return prev
	default:
		return nil
	}
}

func growthPercent(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return round2((cur - prev) / math.Abs(prev) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func dayString(now time.Time, offsetDays int) string {
	return now.UTC().AddDate(0, 0, offsetDays).Format("2006-01-02")
}

// buildDailyTrend returns exactly TrendDays buckets ending today, ascending,
// zero-filled for days without activity.
func buildDailyTrend(in DashboardInput) []TrendPoint {
	index := make(map[string]int, in.TrendDays)
	trend := make([]TrendPoint, 0, in.TrendDays)
	for i := in.TrendDays - 1; i >= 0; i-- {
		date := dayString(in.Now, -i)
		index[date] = len(trend)
		trend = append(trend, TrendPoint{Date: date})
	}

	for i := range in.Orders {
		o := &in.Orders[i]
		pos, ok := index[o.OrderTime.DateString()]
		if !ok {
			continue
		}
		trend[pos].Orders++
		trend[pos].Sales += o.SellPrice
		trend[pos].Cost += o.PurchaseCost
		trend[pos].Profit += OrderProfit(o, in.Settings, in.Now)
	}
	for i := range in.AfterSales {
		if pos, ok := index[in.AfterSales[i].CreatedAt.DateString()]; ok {
			trend[pos].Refunds++
		}
	}
	return trend
}

func buildShopRanking(in DashboardInput) []ShopRank {
	ranking := make([]ShopRank, 0, len(in.Shops))
	for _, shop := range in.Shops {
		if in.ShopFilter != "" && shop.Name != in.ShopFilter {
			continue
		}
		entry := ShopRank{ShopName: shop.Name}
		for i := range in.AllOrders {
			o := &in.AllOrders[i]
			if o.ShopName != shop.Name {
				continue
			}
			entry.Count++
			entry.GrossProfit += OrderProfit(o, in.Settings, in.Now)
		}
		ranking = append(ranking, entry)
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].GrossProfit > ranking[j].GrossProfit
	})
	return ranking
}

func buildBestSellers(in DashboardInput) []ProductStat {
	type productAgg struct {
		ProductStat
		newer float64 // window revenue, newer half vs older half
		older float64
	}
	windowStart := dayString(in.Now, -(in.TrendDays - 1))
	midDate := dayString(in.Now, -(in.TrendDays / 2))

	byName := make(map[string]*productAgg)
	names := make([]string, 0)
	for i := range in.Orders {
		o := &in.Orders[i]
		date := o.OrderTime.DateString()
		for _, it := range o.Items {
			agg, ok := byName[it.Name]
			if !ok {
				agg = &productAgg{ProductStat: ProductStat{Name: it.Name, Img: it.Img, Trend: "flat"}}
				byName[it.Name] = agg
				names = append(names, it.Name)
			}
			revenue := it.Price * float64(it.Qty)
			agg.Sales += it.Qty
			agg.Revenue += revenue
			if date >= windowStart {
				if date >= midDate {
					agg.newer += revenue
				} else {
					agg.older += revenue
				}
			}
		}
	}

	stats := make([]ProductStat, 0, len(names))
	for _, name := range names {
		agg := byName[name]
		if agg.newer > agg.older {
			agg.Trend = "up"
		} else if agg.newer < agg.older {
			agg.Trend = "down"
		}
		stats = append(stats, agg.ProductStat)
	}
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Revenue > stats[j].Revenue
	})
	return stats
}

func buildPlatformDistribution(in DashboardInput) []PlatformShare {
	if len(in.Orders) == 0 {
		return []PlatformShare{}
	}
	counts := make(map[string]int)
	names := make([]string, 0)
	for i := range in.Orders {
		platform := in.Orders[i].PurchasePlatform
		if platform == "" {
			platform = in.Settings.DefaultPurchasePlatform
		}
		if platform == "" {
			platform = "其他"
		}
		if _, ok := counts[platform]; !ok {
			names = append(names, platform)
		}
		counts[platform]++
	}
	shares := make([]PlatformShare, 0, len(names))
	for _, name := range names {
		shares = append(shares, PlatformShare{
			Name:  name,
			Value: int(math.Round(float64(counts[name]) / float64(len(in.Orders)) * 100)),
		})
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].Value > shares[j].Value })
	return shares
}
