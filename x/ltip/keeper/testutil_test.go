package keeper_test

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/keeper"
	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

// referenceGenesisTime anchors every scenario test at a fixed wall-clock
// instant so int64 second arithmetic in the test bodies is stable.
var referenceGenesisTime = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const (
	cliffDuration   int64 = 31_556_952
	vestingDuration int64 = 94_670_856
)

func durationOf(seconds int64) time.Duration {
	return time.Duration(seconds) * time.Second
}

// fakeBank is a minimal in-memory BankKeeper stand-in used to exercise the
// dispatcher's prepare/transfer/rollback path without a real bank module.
// failFor marks beneficiaries whose next SendCoinsFromModuleToAccount call
// should fail, so tests can force a rollback.
type fakeBank struct {
	moduleBalance sdkmath.Int
	failFor       map[string]bool
	received      map[string]sdkmath.Int
}

func newFakeBank(moduleBalance sdkmath.Int) *fakeBank {
	return &fakeBank{
		moduleBalance: moduleBalance,
		failFor:       map[string]bool{},
		received:      map[string]sdkmath.Int{},
	}
}

func (f *fakeBank) SendCoinsFromAccountToModule(_ context.Context, _ sdk.AccAddress, _ string, amt sdk.Coins) error {
	f.moduleBalance = f.moduleBalance.Add(amt[0].Amount)
	return nil
}

func (f *fakeBank) SendCoinsFromModuleToAccount(_ context.Context, _ string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	beneficiary := recipientAddr.String()
	if f.failFor[beneficiary] {
		return fakeTransferErr
	}
	amount := amt[0].Amount
	if amount.GT(f.moduleBalance) {
		return fakeTransferErr
	}
	f.moduleBalance = f.moduleBalance.Sub(amount)
	prev, ok := f.received[beneficiary]
	if !ok {
		prev = sdkmath.ZeroInt()
	}
	f.received[beneficiary] = prev.Add(amount)
	return nil
}

func (f *fakeBank) GetBalance(_ context.Context, _ sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, f.moduleBalance)
}

func (f *fakeBank) MintCoins(_ context.Context, _ string, amt sdk.Coins) error {
	f.moduleBalance = f.moduleBalance.Add(amt[0].Amount)
	return nil
}

var fakeTransferErr = types.WrongTokenSenderError("unused")

func setupKeeper(t *testing.T) (keeper.Keeper, sdk.Context, clockwork.FakeClock) {
	return setupKeeperWithBank(t, nil)
}

func setupKeeperWithBank(t *testing.T, bank types.BankKeeper) (keeper.Keeper, sdk.Context, clockwork.FakeClock) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	cms := rootmulti.NewStore(db, log.NewNopLogger(), storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, cms.LoadLatestVersion())

	header := tmproto.Header{
		ChainID: "sweat-ltip-test-1",
		Height:  1,
		Time:    referenceGenesisTime,
	}
	ctx := sdk.NewContext(cms, header, false, log.NewNopLogger())

	reg := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(reg)

	clock := clockwork.NewFakeClockAt(referenceGenesisTime)

	k := keeper.NewKeeper(
		cdc,
		runtime.NewKVStoreService(storeKey),
		log.NewNopLogger(),
		clock,
		bank,
	)

	cfg := types.Config{
		TokenID:         "token.sweat",
		CliffDuration:   cliffDuration,
		VestingDuration: vestingDuration,
		OwnerID:         "owner",
	}
	require.NoError(t, k.Init(ctx, cfg))
	require.NoError(t, k.GrantRole(ctx, "owner", "issuer", types.RoleIssuer))
	require.NoError(t, k.GrantRole(ctx, "owner", "executor", types.RoleExecutor))

	return k, ctx, clock
}

// freshUninitializedKeeper builds a keeper with an empty store, skipping
// Init, so genesis tests can exercise InitGenesis directly.
func freshUninitializedKeeper(t *testing.T) (keeper.Keeper, sdk.Context) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	cms := rootmulti.NewStore(db, log.NewNopLogger(), storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, cms.LoadLatestVersion())

	header := tmproto.Header{
		ChainID: "sweat-ltip-test-1",
		Height:  1,
		Time:    referenceGenesisTime,
	}
	ctx := sdk.NewContext(cms, header, false, log.NewNopLogger())

	reg := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(reg)
	clock := clockwork.NewFakeClockAt(referenceGenesisTime)

	k := keeper.NewKeeper(cdc, runtime.NewKVStoreService(storeKey), log.NewNopLogger(), clock, nil)
	return k, ctx
}
