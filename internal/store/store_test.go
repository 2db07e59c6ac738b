package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/domain"
	apperrors "github.com/nexusops/fulfillment-api/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(zap.NewNop())
}

func TestOrdersKeepInsertionOrder(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"ORD-3", "ORD-1", "ORD-2"} {
		s.UpsertOrder(domain.Order{ID: id})
	}

	orders := s.Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, "ORD-3", orders[0].ID)
	assert.Equal(t, "ORD-1", orders[1].ID)
	assert.Equal(t, "ORD-2", orders[2].ID)

	// replacing an existing order must not move it
	s.UpsertOrder(domain.Order{ID: "ORD-1", Buyer: "updated"})
	orders = s.Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, "ORD-1", orders[1].ID)
	assert.Equal(t, "updated", orders[1].Buyer)
}

func TestUpsertOrderNormalizesTag(t *testing.T) {
	s := newTestStore(t)
	s.UpsertOrder(domain.Order{ID: "ORD-1", Tag: "blue"})
	s.UpsertOrder(domain.Order{ID: "ORD-2", Tag: "sparkly"})

	o1, err := s.Order("ORD-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TagBlue, o1.Tag)

	o2, err := s.Order("ORD-2")
	require.NoError(t, err)
	assert.Equal(t, domain.TagNone, o2.Tag)
}

func TestUpdateOrderTag(t *testing.T) {
	s := newTestStore(t)
	s.UpsertOrder(domain.Order{ID: "ORD-1"})

	require.NoError(t, s.UpdateOrderTag("ORD-1", "red"))
	o, err := s.Order("ORD-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TagRed, o.Tag)

	err = s.UpdateOrderTag("ORD-404", "red")
	var nf *apperrors.ErrNotFound
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "order", nf.Resource)
}

func TestDeleteOrderIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	s.UpsertOrder(domain.Order{ID: "ORD-1"})

	s.DeleteOrder("ORD-1")
	s.DeleteOrder("ORD-1")
	s.DeleteOrder("never-existed")
	assert.Empty(t, s.Orders())
}

func TestOrderSnapshotIsolation(t *testing.T) {
	s := newTestStore(t)
	s.UpsertOrder(domain.Order{ID: "ORD-1", Items: []domain.OrderItem{{Name: "耳机", Qty: 1}}})

	o, err := s.Order("ORD-1")
	require.NoError(t, err)
	o.Items[0].Qty = 99

	again, err := s.Order("ORD-1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[0].Qty)
}

func TestSaveAfterSaleAssignsIDs(t *testing.T) {
	s := newTestStore(t)

	first := s.SaveAfterSale(domain.AfterSale{OrderID: "ORD-1"})
	assert.Equal(t, 101, first.ID)

	second := s.SaveAfterSale(domain.AfterSale{OrderID: "ORD-2"})
	assert.Equal(t, 102, second.ID)

	// an explicit high id bumps the sequence
	s.SaveAfterSale(domain.AfterSale{ID: 500, OrderID: "ORD-3"})
	next := s.SaveAfterSale(domain.AfterSale{OrderID: "ORD-4"})
	assert.Equal(t, 501, next.ID)

	s.DeleteAfterSale(102)
	s.DeleteAfterSale(102) // no-op
	assert.Len(t, s.AfterSales(), 3)
}

func TestAfterSalesSortedByID(t *testing.T) {
	s := newTestStore(t)
	s.SaveAfterSale(domain.AfterSale{ID: 300})
	s.SaveAfterSale(domain.AfterSale{ID: 101})
	s.SaveAfterSale(domain.AfterSale{ID: 205})

	list := s.AfterSales()
	require.Len(t, list, 3)
	assert.Equal(t, 101, list[0].ID)
	assert.Equal(t, 205, list[1].ID)
	assert.Equal(t, 300, list[2].ID)
}

func TestSaveShopEnforcesUniqueNames(t *testing.T) {
	s := newTestStore(t)

	shop, err := s.SaveShop(domain.Shop{Name: "Amazon 欧洲站"})
	require.NoError(t, err)
	assert.Equal(t, 1, shop.ID)

	_, err = s.SaveShop(domain.Shop{Name: "Amazon 欧洲站"})
	var ve *apperrors.ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Field)

	// renaming the same shop to its own name is fine
	shop.CompanyName = "amazon"
	_, err = s.SaveShop(shop)
	require.NoError(t, err)

	_, err = s.SaveShop(domain.Shop{Name: "   "})
	require.ErrorAs(t, err, &ve)
}

func TestSaveShopRenameFreesOldName(t *testing.T) {
	s := newTestStore(t)
	shop, err := s.SaveShop(domain.Shop{Name: "old name"})
	require.NoError(t, err)

	shop.Name = "new name"
	_, err = s.SaveShop(shop)
	require.NoError(t, err)

	_, ok := s.ShopIDByName("old name")
	assert.False(t, ok)
	id, ok := s.ShopIDByName("new name")
	assert.True(t, ok)
	assert.Equal(t, shop.ID, id)

	// the freed name is available again
	_, err = s.SaveShop(domain.Shop{Name: "old name"})
	require.NoError(t, err)
}

func TestDeleteShopRemovesNameIndex(t *testing.T) {
	s := newTestStore(t)
	shop, err := s.SaveShop(domain.Shop{Name: "Ebay 折扣店"})
	require.NoError(t, err)

	s.DeleteShop(shop.ID)
	s.DeleteShop(shop.ID) // no-op
	_, ok := s.ShopIDByName("Ebay 折扣店")
	assert.False(t, ok)
}

func TestSetSettingsValidation(t *testing.T) {
	s := newTestStore(t)

	err := s.SetSettings(domain.AppSettings{RiskHours: 48, OverdueHours: 48})
	var ve *apperrors.ErrValidation
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "riskHours", ve.Field)

	err = s.SetSettings(domain.AppSettings{RiskHours: 72, OverdueHours: 48})
	require.ErrorAs(t, err, &ve)

	err = s.SetSettings(domain.AppSettings{RiskHours: -1, OverdueHours: 0})
	require.ErrorAs(t, err, &ve)

	// a rejected update must leave the previous settings intact
	assert.InDelta(t, 48.0, s.Settings().OverdueHours, 1e-9)
	assert.InDelta(t, 24.0, s.Settings().RiskHours, 1e-9)

	require.NoError(t, s.SetSettings(domain.AppSettings{
		RiskHours: 12, OverdueHours: 36, OverduePenalty: 8,
	}))
	assert.InDelta(t, 36.0, s.Settings().OverdueHours, 1e-9)
	assert.InDelta(t, 8.0, s.Settings().OverduePenalty, 1e-9)
}

func TestUserSnapshotIsolation(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SaveUser(domain.User{Username: "ops", AssignedShopIDs: []int{1, 2}}))

	u, err := s.UserByUsername("ops")
	require.NoError(t, err)
	u.AssignedShopIDs[0] = 99

	again, err := s.UserByUsername("ops")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, again.AssignedShopIDs)

	err = s.SaveUser(domain.User{Username: " "})
	var ve *apperrors.ErrValidation
	require.ErrorAs(t, err, &ve)

	s.DeleteUser("ops")
	_, err = s.UserByUsername("ops")
	var nf *apperrors.ErrNotFound
	require.ErrorAs(t, err, &nf)
}
