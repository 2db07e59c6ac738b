package domain

// OrderStatus represents the lifecycle status of an order. The wire values
// are the labels the dashboard UI renders, so they stay as-is.
type OrderStatus string

const (
	OrderStatusPendingShip OrderStatus = "待发货"
	OrderStatusShipped     OrderStatus = "已发货"
	OrderStatusInAfterSale OrderStatus = "售后中"
	OrderStatusCompleted   OrderStatus = "已完成"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingShip,
		OrderStatusShipped,
		OrderStatusInAfterSale,
		OrderStatusCompleted:
		return true
	default:
		return false
	}
}

// PurchaseStatus records what happened on the upstream purchasing side.
// The empty value is legal: legacy records carry no status and are judged
// by whether a purchase id is present.
type PurchaseStatus string

const (
	PurchaseStatusUnset        PurchaseStatus = ""
	PurchaseStatusNormal       PurchaseStatus = "normal"
	PurchaseStatusIncrease     PurchaseStatus = "increase"
	PurchaseStatusDecrease     PurchaseStatus = "decrease"
	PurchaseStatusNotPurchased PurchaseStatus = "not_purchased"
)

// IsValid checks if the purchase status is valid
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchaseStatusUnset,
		PurchaseStatusNormal,
		PurchaseStatusIncrease,
		PurchaseStatusDecrease,
		PurchaseStatusNotPurchased:
		return true
	default:
		return false
	}
}

// Tag is a color label attached to an order for visual triage.
type Tag string

const (
	TagNone   Tag = ""
	TagRed    Tag = "red"
	TagOrange Tag = "orange"
	TagGreen  Tag = "green"
	TagBlue   Tag = "blue"
	TagPurple Tag = "purple"
)

// NormalizeTag maps any value outside the fixed palette to TagNone.
// "none" is accepted as an explicit alias for the empty tag.
func NormalizeTag(v string) Tag {
	switch Tag(v) {
	case TagRed, TagOrange, TagGreen, TagBlue, TagPurple:
		return Tag(v)
	default:
		return TagNone
	}
}

// AfterSaleType is the kind of after-sale workflow
type AfterSaleType string

const (
	AfterSaleTypeRefundOnly   AfterSaleType = "仅退款"
	AfterSaleTypeReturnRefund AfterSaleType = "退货退款"
	AfterSaleTypeExchange     AfterSaleType = "换货"
)

// AfterSaleStatus is the processing state of an after-sale workflow
type AfterSaleStatus string

const (
	AfterSaleStatusProcessing     AfterSaleStatus = "处理中"
	AfterSaleStatusBuyerReturning AfterSaleStatus = "买家退货中"
	AfterSaleStatusCompleted      AfterSaleStatus = "已完成"
	AfterSaleStatusRejected       AfterSaleStatus = "已拒绝"
)

// UpstreamStatus tracks the supplier-side refund of an after-sale
type UpstreamStatus string

const (
	UpstreamStatusPending      UpstreamStatus = "待处理"
	UpstreamStatusRefunded     UpstreamStatus = "已退款"
	UpstreamStatusCannotRefund UpstreamStatus = "无法退款"
)

// UserRole distinguishes full administrators from scoped sub-accounts
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)
