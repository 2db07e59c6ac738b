package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeFormats(t *testing.T) {
	got, err := ParseTime("2024-05-20 15:04:05")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", got.DateString())

	// RFC3339 input is tolerated and normalized to UTC
	got, err = ParseTime("2024-05-20T15:04:05+08:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20 07:04:05", got.String())

	_, err = ParseTime("yesterday-ish")
	require.Error(t, err)

	got, err = ParseTime("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestTimeJSONRoundTrip(t *testing.T) {
	orig := NewTime(time.Date(2024, 5, 20, 15, 4, 5, 0, time.UTC))

	raw, err := json.Marshal(orig)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-20 15:04:05"`, string(raw))

	var back Time
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, orig, back)
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, TagBlue, NormalizeTag("blue"))
	assert.Equal(t, TagNone, NormalizeTag("Blue"))
	assert.Equal(t, TagNone, NormalizeTag("none"))
	assert.Equal(t, TagNone, NormalizeTag("sparkly"))
}

func TestOrderStatusIsValid(t *testing.T) {
	assert.True(t, OrderStatusPendingShip.IsValid())
	assert.True(t, OrderStatusCompleted.IsValid())
	assert.False(t, OrderStatus("shipped").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestUserPermissionHelpers(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.HasGlobalView())
	assert.True(t, admin.Can(func(p UserPermissions) bool { return p.ManageSettings }))

	scoped := &User{Role: RoleUser, Permissions: UserPermissions{ManageOrders: true}}
	assert.False(t, scoped.IsAdmin())
	assert.False(t, scoped.HasGlobalView())
	assert.True(t, scoped.Can(func(p UserPermissions) bool { return p.ManageOrders }))
	assert.False(t, scoped.Can(func(p UserPermissions) bool { return p.ManageSettings }))

	var nobody *User
	assert.False(t, nobody.IsAdmin())
	assert.False(t, nobody.Can(func(p UserPermissions) bool { return true }))
}
