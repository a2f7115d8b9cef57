package keeper_test

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

func TestExportGenesisRoundTripsThroughInitGenesis(t *testing.T) {
	k, ctx, _ := setupKeeper(t)
	require.NoError(t, k.TopUp(ctx, "issuer", sdkmath.NewInt(10_000)))
	require.NoError(t, k.Issue(ctx, types.MsgIssue{
		Issuer:  "issuer",
		IssueAt: 1,
		Grants:  []types.GrantInput{{AccountID: "alice", Amount: "5000"}},
	}))

	exported, err := k.ExportGenesis(ctx)
	require.NoError(t, err)
	require.Equal(t, sdkmath.NewInt(5000), exported.SpareBalance)
	require.Len(t, exported.Accounts, 1)
	require.Contains(t, exported.RoleMembers[types.RoleOwner], "owner")
	require.Contains(t, exported.RoleMembers[types.RoleIssuer], "issuer")

	k2, ctx2 := freshUninitializedKeeper(t)
	require.NoError(t, k2.InitGenesis(ctx2, *exported))

	reExported, err := k2.ExportGenesis(ctx2)
	require.NoError(t, err)
	require.Equal(t, exported.Config, reExported.Config)
	require.Equal(t, exported.SpareBalance, reExported.SpareBalance)
	require.Equal(t, exported.Accounts, reExported.Accounts)
}

func TestInitGenesisRejectsInvalidState(t *testing.T) {
	k, ctx := freshUninitializedKeeper(t)

	gs := types.GenesisState{
		Config:       types.Config{},
		SpareBalance: sdkmath.NewInt(-1),
	}
	require.Error(t, k.InitGenesis(ctx, gs))
}
