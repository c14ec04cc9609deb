package authorization

import (
	"context"
	"testing"

	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) Service {
	t.Helper()
	db := testutil.OpenDB(t)
	enforcer, err := NewEnforcer(db)
	require.NoError(t, err)
	return NewService(Params{Log: zap.NewNop(), Enforcer: enforcer})
}

func TestRolePolicies(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	cases := []struct {
		role, object, action string
		allowed              bool
	}{
		{"admin", ObjectRateBook, ActionDelete, true},
		{"admin", ObjectAuditLog, ActionView, true},
		{"manager", ObjectCustomer, ActionDelete, true},
		{"manager", ObjectBill, ActionDelete, true},
		{"manager", ObjectRateBook, ActionCreate, true},
		{"manager", ObjectStation, ActionUpdate, true},
		{"manager", ObjectRateBook, ActionDelete, false},
		{"manager", ObjectUser, ActionCreate, false},
		{"staff", ObjectCustomer, ActionDelete, false},
		{"accountant", ObjectRateBook, ActionCreate, false},
	}
	for _, tc := range cases {
		err := svc.Authorize(ctx, "42", tc.role, tc.object, tc.action)
		if tc.allowed {
			assert.NoError(t, err, "%s %s %s", tc.role, tc.object, tc.action)
		} else {
			assert.ErrorIs(t, err, ErrForbidden, "%s %s %s", tc.role, tc.object, tc.action)
		}
	}
}

func TestRoleChangeReplacesGrouping(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Authorize(ctx, "7", "admin", ObjectRateBook, ActionDelete))
	assert.ErrorIs(t, svc.Authorize(ctx, "7", "staff", ObjectRateBook, ActionDelete), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, "", "admin", ObjectRateBook, ActionDelete), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "7", "admin", "", ActionDelete), ErrInvalidObject)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	_, err := NewEnforcer(db)
	require.NoError(t, err)
	enforcer, err := NewEnforcer(db)
	require.NoError(t, err)

	policies, err := enforcer.GetPolicy()
	require.NoError(t, err)
	assert.Len(t, policies, 13)
}
