package service

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/nexusops/fulfillment-api/internal/domain"
)

// FlexFloat accepts a JSON number or a numeric string. Anything unparsable
// (including blank) is 0: dashboard forms are tolerated, not rejected.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

// OrderPayload is one order record in a sync batch.
type OrderPayload struct {
	ID                  string             `json:"id"`
	Buyer               string             `json:"buyer"`
	Status              string             `json:"status"`
	Contact             string             `json:"contact"`
	Phone               string             `json:"phone"`
	Address             string             `json:"address"`
	PurchaseID          string             `json:"purchaseId"`
	PurchaseCost        FlexFloat          `json:"purchaseCost"`
	PurchaseStatus      string             `json:"purchaseStatus"`
	PurchaseDiff        FlexFloat          `json:"purchaseDiff"`
	PurchaseNote        string             `json:"purchaseNote"`
	SellPrice           FlexFloat          `json:"sellPrice"`
	Items               []OrderItemPayload `json:"items"`
	OrderTime           string             `json:"orderTime"`
	PurchaseLogisticsID string             `json:"purchaseLogisticsId"`
	PurchasePlatform    string             `json:"purchasePlatform"`
	ShopName            string             `json:"shopName"`
	Tag                 string             `json:"tag"`
}

type OrderItemPayload struct {
	Name        string    `json:"name"`
	Spec        string    `json:"spec"`
	Price       FlexFloat `json:"price"`
	Qty         int       `json:"qty"`
	Img         string    `json:"img"`
	SnapshotURL string    `json:"snapshotUrl"`
}

// ToDomain converts the payload, parsing the timestamp and normalizing the
// tag. An invalid status string is rejected; everything else is tolerated.
func (p OrderPayload) ToDomain() (domain.Order, error) {
	t, err := domain.ParseTime(p.OrderTime)
	if err != nil {
		return domain.Order{}, err
	}
	items := make([]domain.OrderItem, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, domain.OrderItem{
			Name:        it.Name,
			Spec:        it.Spec,
			Price:       float64(it.Price),
			Qty:         it.Qty,
			Img:         it.Img,
			SnapshotURL: it.SnapshotURL,
		})
	}
	return domain.Order{
		ID:                  strings.TrimSpace(p.ID),
		Buyer:               p.Buyer,
		Status:              domain.OrderStatus(p.Status),
		Contact:             p.Contact,
		Phone:               p.Phone,
		Address:             p.Address,
		PurchaseID:          p.PurchaseID,
		PurchaseCost:        float64(p.PurchaseCost),
		PurchaseStatus:      domain.PurchaseStatus(p.PurchaseStatus),
		PurchaseDiff:        float64(p.PurchaseDiff),
		PurchaseNote:        p.PurchaseNote,
		SellPrice:           float64(p.SellPrice),
		Items:               items,
		OrderTime:           t,
		PurchaseLogisticsID: p.PurchaseLogisticsID,
		PurchasePlatform:    p.PurchasePlatform,
		ShopName:            p.ShopName,
		Tag:                 domain.NormalizeTag(p.Tag),
	}, nil
}

// AfterSalePayload is the create/update body for an after-sale workflow.
type AfterSalePayload struct {
	ID                   int       `json:"id"`
	OrderID              string    `json:"order_id" binding:"required"`
	Type                 string    `json:"type"`
	Status               string    `json:"status"`
	RefundAmount         FlexFloat `json:"refund_amount"`
	UpstreamRefundAmount FlexFloat `json:"upstream_refund_amount"`
	UpstreamStatus       string    `json:"upstream_status"`
	Reason               string    `json:"reason"`
	LogisticsCompany     string    `json:"logistics_company"`
	LogisticsID          string    `json:"logistics_id"`
	CreatedAt            string    `json:"created_at"`
}

// ShopPayload is the create/update body for a shop.
type ShopPayload struct {
	ID           int    `json:"id"`
	Name         string `json:"name" binding:"required"`
	CompanyName  string `json:"companyName"`
	ShopPassword string `json:"shopPassword"`
	Note         string `json:"note"`
}

// UserPayload is the create/update body for a staff account. A blank
// password on update keeps the stored hash.
type UserPayload struct {
	Username        string                 `json:"username" binding:"required"`
	Name            string                 `json:"name"`
	Role            string                 `json:"role"`
	Avatar          string                 `json:"avatar"`
	Password        string                 `json:"password"`
	AssignedShopIDs []int                  `json:"assignedShopIds"`
	Permissions     domain.UserPermissions `json:"permissions"`
}

// OrderPage is the paged order listing response; Total reflects the
// filtered count, not the store size.
type OrderPage struct {
	Items    []domain.Order `json:"items"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}
