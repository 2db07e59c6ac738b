package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/domain"
	"github.com/nexusops/fulfillment-api/internal/store"
)

// Loader hydrates the in-memory store from Postgres at boot.
type Loader struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewLoader creates a new warm loader
func NewLoader(db *sql.DB, logger *zap.Logger) *Loader {
	return &Loader{db: db, logger: logger}
}

// Load pulls shops, users, orders and after-sales into the store. Rows that
// fail to scan are skipped and logged rather than aborting the boot.
func (l *Loader) Load(ctx context.Context, st *store.Store) error {
	if err := l.loadShops(ctx, st); err != nil {
		return err
	}
	if err := l.loadUsers(ctx, st); err != nil {
		return err
	}
	if err := l.loadOrders(ctx, st); err != nil {
		return err
	}
	return l.loadAfterSales(ctx, st)
}

func (l *Loader) loadShops(ctx context.Context, st *store.Store) error {
	query := `SELECT id, name, company_name, shop_password, note FROM shops ORDER BY id`

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var shop domain.Shop
		var company, password, note sql.NullString
		if err := rows.Scan(&shop.ID, &shop.Name, &company, &password, &note); err != nil {
			l.logger.Warn("skipping bad shop row", zap.Error(err))
			continue
		}
		shop.CompanyName = company.String
		shop.ShopPassword = password.String
		shop.Note = note.String
		if _, err := st.SaveShop(shop); err != nil {
			l.logger.Warn("skipping shop", zap.String("name", shop.Name), zap.Error(err))
			continue
		}
		loaded++
	}
	l.logger.Info("shops loaded", zap.Int("count", loaded))
	return rows.Err()
}

func (l *Loader) loadUsers(ctx context.Context, st *store.Store) error {
	users, err := NewUserRepository(l.db, l.logger).List(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		if err := st.SaveUser(user); err != nil {
			l.logger.Warn("skipping user", zap.String("username", user.Username), zap.Error(err))
		}
	}
	l.logger.Info("users loaded", zap.Int("count", len(users)))
	return nil
}

func (l *Loader) loadOrders(ctx context.Context, st *store.Store) error {
	query := `
		SELECT id, buyer, status, contact, phone, address,
		       purchase_id, purchase_cost, purchase_status, purchase_diff, purchase_note,
		       sell_price, items, order_time,
		       purchase_logistics_id, purchase_platform, shop_name, tag
		FROM orders
		ORDER BY order_time
	`

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var o domain.Order
		var items []byte
		var purchaseID, purchaseStatus, purchaseNote, logisticsID, platform, tag sql.NullString
		var orderTime sql.NullTime

		err := rows.Scan(
			&o.ID, &o.Buyer, &o.Status, &o.Contact, &o.Phone, &o.Address,
			&purchaseID, &o.PurchaseCost, &purchaseStatus, &o.PurchaseDiff, &purchaseNote,
			&o.SellPrice, &items, &orderTime,
			&logisticsID, &platform, &o.ShopName, &tag,
		)
		if err != nil {
			l.logger.Warn("skipping bad order row", zap.Error(err))
			continue
		}

		o.PurchaseID = purchaseID.String
		o.PurchaseStatus = domain.PurchaseStatus(purchaseStatus.String)
		o.PurchaseNote = purchaseNote.String
		o.PurchaseLogisticsID = logisticsID.String
		o.PurchasePlatform = platform.String
		o.Tag = domain.NormalizeTag(tag.String)
		if orderTime.Valid {
			o.OrderTime = domain.NewTime(orderTime.Time)
		}
		if len(items) > 0 {
			if err := json.Unmarshal(items, &o.Items); err != nil {
				l.logger.Warn("skipping order with bad items", zap.String("id", o.ID), zap.Error(err))
				continue
			}
		}

		st.UpsertOrder(o)
		loaded++
	}
	l.logger.Info("orders loaded", zap.Int("count", loaded))
	return rows.Err()
}

func (l *Loader) loadAfterSales(ctx context.Context, st *store.Store) error {
	query := `
		SELECT id, order_id, type, status, refund_amount, upstream_refund_amount,
		       upstream_status, reason, logistics_company, logistics_id, created_at,
		       shop_name, sell_price, purchase_cost, purchase_id
		FROM after_sales
		ORDER BY id
	`

	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	loaded := 0
	for rows.Next() {
		var a domain.AfterSale
		var logisticsCompany, logisticsID, shopName, purchaseID sql.NullString
		var createdAt sql.NullTime

		err := rows.Scan(
			&a.ID, &a.OrderID, &a.Type, &a.Status, &a.RefundAmount, &a.UpstreamRefundAmount,
			&a.UpstreamStatus, &a.Reason, &logisticsCompany, &logisticsID, &createdAt,
			&shopName, &a.SellPrice, &a.PurchaseCost, &purchaseID,
		)
		if err != nil {
			l.logger.Warn("skipping bad after-sale row", zap.Error(err))
			continue
		}

		a.LogisticsCompany = logisticsCompany.String
		a.LogisticsID = logisticsID.String
		a.ShopName = shopName.String
		a.PurchaseID = purchaseID.String
		if createdAt.Valid {
			a.CreatedAt = domain.NewTime(createdAt.Time)
		}

		st.SaveAfterSale(a)
		loaded++
	}
	l.logger.Info("after-sales loaded", zap.Int("count", loaded))
	return rows.Err()
}
