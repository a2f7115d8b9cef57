package keeper_test

import (
	"testing"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

func TestGrantRoleIsOwnerOnlyAndIdempotent(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	err := k.GrantRole(ctx, "not-owner", "bob", types.RoleExecutor)
	require.ErrorIs(t, err, types.ErrUnauthorizedRole)

	require.NoError(t, k.GrantRole(ctx, "owner", "bob", types.RoleExecutor))
	require.NoError(t, k.GrantRole(ctx, "owner", "bob", types.RoleExecutor))

	members, err := k.Members(ctx, types.RoleExecutor)
	require.NoError(t, err)
	require.Len(t, members, 2) // "executor" from setup, plus "bob"
	require.Contains(t, members, "bob")
}

func TestRevokeRoleRemovesMembership(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	require.NoError(t, k.GrantRole(ctx, "owner", "bob", types.RoleExecutor))

	require.NoError(t, k.RevokeRole(ctx, "owner", "bob", types.RoleExecutor))

	has, err := k.HasRole(ctx, "bob", types.RoleExecutor)
	require.NoError(t, err)
	require.False(t, has)
}

func TestRevokeRoleIsOwnerOnly(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	require.NoError(t, k.GrantRole(ctx, "owner", "bob", types.RoleExecutor))

	err := k.RevokeRole(ctx, "bob", "bob", types.RoleExecutor)
	require.ErrorIs(t, err, types.ErrUnauthorizedRole)
}

func TestGrantRoleEmitsEventWithAccountAndRole(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	ctx = ctx.WithEventManager(sdk.NewEventManager())

	require.NoError(t, k.GrantRole(ctx, "owner", "bob", types.RoleExecutor))

	events := ctx.EventManager().Events()
	require.Len(t, events, 1)
	require.Equal(t, types.EventTypeGrantRole, events[0].Type)
	attrs := events[0].Attributes
	require.Equal(t, types.AttributeAccountID, attrs[0].Key)
	require.Equal(t, "bob", attrs[0].Value)
	require.Equal(t, types.AttributeRole, attrs[1].Key)
	require.Equal(t, string(types.RoleExecutor), attrs[1].Value)
}

func TestGrantRoleIdempotentCallEmitsNoSecondEvent(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	ctx = ctx.WithEventManager(sdk.NewEventManager())

	require.NoError(t, k.GrantRole(ctx, "owner", "bob", types.RoleExecutor))
	require.NoError(t, k.GrantRole(ctx, "owner", "bob", types.RoleExecutor))

	require.Len(t, ctx.EventManager().Events(), 1)
}

func TestRevokeRoleEmitsEventWithAccountAndRole(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	require.NoError(t, k.GrantRole(ctx, "owner", "bob", types.RoleExecutor))

	ctx = ctx.WithEventManager(sdk.NewEventManager())
	require.NoError(t, k.RevokeRole(ctx, "owner", "bob", types.RoleExecutor))

	events := ctx.EventManager().Events()
	require.Len(t, events, 1)
	require.Equal(t, types.EventTypeRevokeRole, events[0].Type)
	attrs := events[0].Attributes
	require.Equal(t, types.AttributeAccountID, attrs[0].Key)
	require.Equal(t, "bob", attrs[0].Value)
	require.Equal(t, types.AttributeRole, attrs[1].Key)
	require.Equal(t, string(types.RoleExecutor), attrs[1].Value)
}

func TestRevokeRoleOnNonMemberEmitsNoEvent(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	ctx = ctx.WithEventManager(sdk.NewEventManager())

	require.NoError(t, k.RevokeRole(ctx, "owner", "bob", types.RoleExecutor))

	require.Empty(t, ctx.EventManager().Events())
}

func TestMembersOfOwnerRoleIncludesConfiguredOwner(t *testing.T) {
	k, ctx, _ := setupKeeper(t)

	members, err := k.Members(ctx, types.RoleOwner)
	require.NoError(t, err)
	require.Contains(t, members, "owner")
}
