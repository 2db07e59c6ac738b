package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nexusops/fulfillment-api/internal/domain"
	apperrors "github.com/nexusops/fulfillment-api/pkg/errors"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return NewUserService(fixtureStore(t), "test-secret", time.Hour, zap.NewNop())
}

func TestLoginAndAuthenticateRoundTrip(t *testing.T) {
	svc := newUserService(t)

	require.NoError(t, svc.Save(adminUser, UserPayload{
		Username:        "ops1",
		Name:            "运营一号",
		Role:            "user",
		Password:        "secret",
		AssignedShopIDs: []int{1},
	}))

	user, token, err := svc.Login("ops1", "secret")
	require.NoError(t, err)
	assert.Equal(t, "ops1", user.Username)
	assert.NotEmpty(t, token)

	resolved, err := svc.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, "ops1", resolved.Username)
	assert.Equal(t, domain.RoleUser, resolved.Role)
	assert.Equal(t, []int{1}, resolved.AssignedShopIDs)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newUserService(t)
	require.NoError(t, svc.Save(adminUser, UserPayload{Username: "ops1", Password: "secret"}))

	var ua *apperrors.ErrUnauthorized
	_, _, err := svc.Login("ops1", "wrong")
	require.ErrorAs(t, err, &ua)

	_, _, err = svc.Login("nobody", "secret")
	require.ErrorAs(t, err, &ua)
}

func TestAuthenticateRejectsGarbageAndDeletedAccounts(t *testing.T) {
	svc := newUserService(t)
	require.NoError(t, svc.Save(adminUser, UserPayload{Username: "ops1", Password: "secret"}))

	var ua *apperrors.ErrUnauthorized
	_, err := svc.Authenticate("not.a.token")
	require.ErrorAs(t, err, &ua)

	_, token, err := svc.Login("ops1", "secret")
	require.NoError(t, err)

	// a token outlives its account only until the next lookup
	require.NoError(t, svc.Delete(adminUser, "ops1"))
	_, err = svc.Authenticate(token)
	require.ErrorAs(t, err, &ua)
}

func TestAuthenticateRejectsTokenFromOtherSecret(t *testing.T) {
	svc := newUserService(t)
	require.NoError(t, svc.Save(adminUser, UserPayload{Username: "ops1", Password: "secret"}))
	_, token, err := svc.Login("ops1", "secret")
	require.NoError(t, err)

	other := NewUserService(fixtureStore(t), "different-secret", time.Hour, zap.NewNop())
	var ua *apperrors.ErrUnauthorized
	_, err = other.Authenticate(token)
	require.ErrorAs(t, err, &ua)
}

func TestUserSavePasswordRules(t *testing.T) {
	svc := newUserService(t)

	// a new account needs a password
	var ve *apperrors.ErrValidation
	err := svc.Save(adminUser, UserPayload{Username: "ops1"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)

	require.NoError(t, svc.Save(adminUser, UserPayload{Username: "ops1", Password: "secret"}))

	// a blank password on update keeps the stored hash
	require.NoError(t, svc.Save(adminUser, UserPayload{Username: "ops1", Name: "renamed"}))
	_, _, err = svc.Login("ops1", "secret")
	require.NoError(t, err)

	// a new password replaces it
	require.NoError(t, svc.Save(adminUser, UserPayload{Username: "ops1", Password: "rotated"}))
	_, _, err = svc.Login("ops1", "secret")
	require.Error(t, err)
	_, _, err = svc.Login("ops1", "rotated")
	require.NoError(t, err)
}

func TestUserSaveDefaults(t *testing.T) {
	svc := newUserService(t)

	require.NoError(t, svc.Save(adminUser, UserPayload{Username: "ops1", Password: "secret", Role: "superuser"}))
	saved, err := svc.store.UserByUsername("ops1")
	require.NoError(t, err)
	// unknown roles collapse to the scoped role
	assert.Equal(t, domain.RoleUser, saved.Role)
	assert.True(t, strings.Contains(saved.Avatar, "dicebear"))
}

func TestUserManagementIsAdminOnly(t *testing.T) {
	svc := newUserService(t)

	var fb *apperrors.ErrForbidden
	err := svc.Save(scopedUser, UserPayload{Username: "ops2", Password: "x"})
	require.ErrorAs(t, err, &fb)

	err = svc.Delete(scopedUser, "ops2")
	require.ErrorAs(t, err, &fb)
}

func TestUsersByShop(t *testing.T) {
	svc := newUserService(t)

	require.NoError(t, svc.Save(adminUser, UserPayload{
		Username: "ops1", Password: "x", Role: "user", AssignedShopIDs: []int{1, 2},
	}))
	require.NoError(t, svc.Save(adminUser, UserPayload{
		Username: "ops2", Password: "x", Role: "user", AssignedShopIDs: []int{2},
	}))
	require.NoError(t, svc.Save(adminUser, UserPayload{
		Username: "boss", Password: "x", Role: "admin", AssignedShopIDs: []int{1},
	}))

	shop1 := svc.UsersByShop(1)
	require.Len(t, shop1, 1) // admins are not listed as shop staff
	assert.Equal(t, "ops1", shop1[0].Username)

	assert.Len(t, svc.UsersByShop(2), 2)
	assert.Empty(t, svc.UsersByShop(99))
}
