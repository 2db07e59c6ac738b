package domain

// OrderItem is a single line item on an order
type OrderItem struct {
	Name        string  `json:"name"`
	Spec        string  `json:"spec"`
	Price       float64 `json:"price"`
	Qty         int     `json:"qty"`
	Img         string  `json:"img"`
	SnapshotURL string  `json:"snapshotUrl,omitempty"`
}

// Order represents a buyer order ingested from a storefront.
// SellPrice is authoritative; it is not reconciled against item subtotals.
// ShopName is a weak reference resolved through the store's unique name index.
type Order struct {
	ID                  string         `json:"id"`
	Buyer               string         `json:"buyer"`
	Status              OrderStatus    `json:"status"`
	Contact             string         `json:"contact"`
	Phone               string         `json:"phone"`
	Address             string         `json:"address"`
	PurchaseID          string         `json:"purchaseId,omitempty"`
	PurchaseCost        float64        `json:"purchaseCost"`
	PurchaseStatus      PurchaseStatus `json:"purchaseStatus,omitempty"`
	PurchaseDiff        float64        `json:"purchaseDiff,omitempty"`
	PurchaseNote        string         `json:"purchaseNote,omitempty"`
	SellPrice           float64        `json:"sellPrice"`
	Items               []OrderItem    `json:"items"`
	OrderTime           Time           `json:"orderTime"`
	PurchaseLogisticsID string         `json:"purchaseLogisticsId,omitempty"`
	PurchasePlatform    string         `json:"purchasePlatform,omitempty"`
	ShopName            string         `json:"shopName"`
	Tag                 Tag            `json:"tag,omitempty"`
}

// Shop is a sales channel that owns orders. Name doubles as the de facto
// foreign key from Order and AfterSale and must be unique.
type Shop struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	CompanyName  string `json:"companyName,omitempty"`
	ShopPassword string `json:"shopPassword,omitempty"` // stored as-is; known legacy smell
	Note         string `json:"note,omitempty"`
}

// AfterSale is a refund/return/exchange workflow record.
// ShopName, SellPrice, PurchaseCost and PurchaseID are snapshots of the
// parent order at creation time and never auto-sync afterwards. Tag and
// PurchaseStatus are the opposite: enriched live from the parent order on
// every read and never stored.
type AfterSale struct {
	ID                   int             `json:"id"`
	OrderID              string          `json:"order_id"`
	Type                 AfterSaleType   `json:"type"`
	Status               AfterSaleStatus `json:"status"`
	RefundAmount         float64         `json:"refund_amount"`
	UpstreamRefundAmount float64         `json:"upstream_refund_amount"`
	UpstreamStatus       UpstreamStatus  `json:"upstream_status"`
	Reason               string          `json:"reason"`
	LogisticsCompany     string          `json:"logistics_company,omitempty"`
	LogisticsID          string          `json:"logistics_id,omitempty"`
	CreatedAt            Time            `json:"created_at"`
	ShopName             string          `json:"shopName,omitempty"`
	SellPrice            float64         `json:"sellPrice,omitempty"`
	PurchaseCost         float64         `json:"purchaseCost,omitempty"`
	PurchaseID           string          `json:"purchaseId,omitempty"`
	Tag                  Tag             `json:"tag,omitempty"`
	PurchaseStatus       PurchaseStatus  `json:"purchaseStatus,omitempty"`
}

// AppSettings is the fulfillment rule configuration read by every profit
// and risk calculation. RiskHours must stay below OverdueHours.
type AppSettings struct {
	OverduePenalty          float64 `json:"overduePenalty"`
	OverdueHours            float64 `json:"overdueHours"`
	RiskHours               float64 `json:"riskHours"`
	DefaultPurchasePlatform string  `json:"defaultPurchasePlatform"`
	DefaultShippingCost     float64 `json:"defaultShippingCost"`
}

// UserPermissions only applies to role=user accounts; admins implicitly
// hold every permission. ViewAllShops overrides shop assignment entirely.
type UserPermissions struct {
	ManageOrders   bool `json:"manageOrders"`
	ViewDashboard  bool `json:"viewDashboard"`
	ManageSettings bool `json:"manageSettings"`
	ViewAllShops   bool `json:"viewAllShops"`
}

// User is a staff account. PasswordHash never leaves the backend.
type User struct {
	Username        string          `json:"username"`
	Name            string          `json:"name"`
	Role            UserRole        `json:"role"`
	Avatar          string          `json:"avatar,omitempty"`
	PasswordHash    string          `json:"-"`
	AssignedShopIDs []int           `json:"assignedShopIds,omitempty"`
	Permissions     UserPermissions `json:"permissions"`
}

// IsAdmin reports whether the account has the admin role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasGlobalView reports whether scoping is bypassed for this account
func (u *User) HasGlobalView() bool {
	return u != nil && (u.Role == RoleAdmin || u.Permissions.ViewAllShops)
}

// Can reports whether the account holds a named permission. Admins hold all.
func (u *User) Can(check func(UserPermissions) bool) bool {
	if u == nil {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	return check(u.Permissions)
}
