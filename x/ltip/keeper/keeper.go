package keeper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/codec"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

// Keeper owns every piece of LTIP state: the immutable Config (C6), the
// account registry (C3), the treasury counter (C4), and the role
// membership sets (C6). Storage follows the teacher's collections idiom:
// plain Go structs JSON-encoded into collections.Map/Item values, the same
// shape x/insurance and x/crisis use for their own keepers.
type Keeper struct {
	cdc          codec.Codec
	storeService store.KVStoreService
	logger       log.Logger
	clock        clockwork.Clock
	bank         types.BankKeeper

	Config       collections.Item[string]
	SpareBalance collections.Item[string]
	Accounts     collections.Map[string, string]
	RoleMembers  collections.Map[string, string]
}

// NewKeeper constructs a Keeper. clock is injected per spec.md §9 ("Clock
// source: treated as an input parameter") so tests can pin it with
// clockwork.NewFakeClock() instead of depending on wall time.
func NewKeeper(
	cdc codec.Codec,
	storeService store.KVStoreService,
	logger log.Logger,
	clock clockwork.Clock,
	bank types.BankKeeper,
) Keeper {
	sb := collections.NewSchemaBuilder(storeService)

	return Keeper{
		cdc:          cdc,
		storeService: storeService,
		logger:       logger,
		clock:        clock,
		bank:         bank,
		Config: collections.NewItem(
			sb,
			collections.NewPrefix(types.ConfigKey),
			"config",
			collections.StringValue,
		),
		SpareBalance: collections.NewItem(
			sb,
			collections.NewPrefix(types.SpareBalanceKey),
			"spare_balance",
			collections.StringValue,
		),
		Accounts: collections.NewMap(
			sb,
			collections.NewPrefix(types.AccountKeyPrefix),
			"accounts",
			collections.StringKey,
			collections.StringValue,
		),
		RoleMembers: collections.NewMap(
			sb,
			collections.NewPrefix(types.RoleMemberKeyPrefix),
			"role_members",
			collections.StringKey,
			collections.StringValue,
		),
	}
}

// Now reads the injected clock, falling back to the Go wall clock only if
// no clock was wired (defensive default; production wiring always injects
// one — see cmd/ltipd).
func (k Keeper) Now() int64 {
	if k.clock == nil {
		return time.Now().Unix()
	}
	return k.clock.Now().Unix()
}

// NewOperationID mints a journal identifier for one prepare/commit cycle
// (spec.md §4.5, §9's "journal of reversible deltas").
func (k Keeper) NewOperationID() string {
	return uuid.NewString()
}

// Init runs the one-time constructor (spec.md §6 `new`): it rejects being
// called a second time, the way the Rust contract's init panics if state
// already exists.
func (k Keeper) Init(ctx context.Context, cfg types.Config) error {
	if _, err := k.Config.Get(ctx); err == nil {
		return fmt.Errorf("ltip module is already initialized")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := k.setConfig(ctx, cfg); err != nil {
		return err
	}
	if err := k.SpareBalance.Set(ctx, marshalInt(sdkmath.ZeroInt())); err != nil {
		return err
	}
	return k.setRoleMembers(ctx, types.RoleOwner, []string{cfg.OwnerID})
}

// GetConfig is the get_config() view (spec.md §6).
func (k Keeper) GetConfig(ctx context.Context) (types.Config, error) {
	raw, err := k.Config.Get(ctx)
	if err != nil {
		return types.Config{}, fmt.Errorf("ltip module is not initialized")
	}
	var cfg types.Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (k Keeper) setConfig(ctx context.Context, cfg types.Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return k.Config.Set(ctx, string(raw))
}

func marshalInt(v sdkmath.Int) string {
	return v.String()
}

func unmarshalInt(raw string) (sdkmath.Int, error) {
	v, ok := sdkmath.NewIntFromString(raw)
	if !ok {
		return sdkmath.Int{}, fmt.Errorf("invalid integer %q", raw)
	}
	return v, nil
}
