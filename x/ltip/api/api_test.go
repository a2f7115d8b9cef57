package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/api"
	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/keeper"
	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

func setupViewsAPI(t *testing.T) (*api.ViewsAPI, sdk.Context) {
	t.Helper()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	db := dbm.NewMemDB()
	cms := rootmulti.NewStore(db, log.NewNopLogger(), storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	require.NoError(t, cms.LoadLatestVersion())

	header := tmproto.Header{ChainID: "sweat-ltip-test-1", Height: 1, Time: time.Unix(1_700_000_000, 0).UTC()}
	ctx := sdk.NewContext(cms, header, false, log.NewNopLogger())

	reg := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(reg)
	clock := clockwork.NewFakeClockAt(header.Time)

	k := keeper.NewKeeper(cdc, runtime.NewKVStoreService(storeKey), log.NewNopLogger(), clock, nil)
	require.NoError(t, k.Init(ctx, types.Config{
		TokenID:         "token.sweat",
		CliffDuration:   31_556_952,
		VestingDuration: 94_670_856,
		OwnerID:         "owner",
	}))

	return api.NewViewsAPI(log.NewNopLogger(), k, ctx), ctx
}

func TestGetConfigReturnsInitializedConfig(t *testing.T) {
	a, ctx := setupViewsAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/config", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var cfg types.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	require.Equal(t, "token.sweat", cfg.TokenID)
}

func TestGetAccountNotFoundReturns404(t *testing.T) {
	a, ctx := setupViewsAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/nobody", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSpareBalanceStartsAtZero(t *testing.T) {
	a, ctx := setupViewsAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/spare-balance", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, sdkmath.ZeroInt().String(), body["spare_balance"])
}

func TestListAccountsHonorsFromAndLimit(t *testing.T) {
	a, ctx := setupViewsAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts?from=1&limit=1", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, float64(0), body["count"])
}

func TestGetMembersListsOwner(t *testing.T) {
	a, ctx := setupViewsAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/roles/owner/members", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	members, ok := body["members"].([]any)
	require.True(t, ok)
	require.Contains(t, members, "owner")
}
