package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"cosmossdk.io/log"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	tmproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/api"
	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/keeper"
	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		log.NewLogger(os.Stderr).Error("ltipd failed", "err", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the ltipd cobra tree: `serve` brings up the keeper over
// a persistent store and the read-only views gateway, and `tx` submits a
// single state transition against that same store, the way aethelredd's
// root delegates to a constructed command tree rather than a flat command.
func NewRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "ltipd",
		Short: "LTIP accounting engine daemon",
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the views gateway over a persistent ltip store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file to load before reading environment variables")

	root.AddCommand(serve)
	root.AddCommand(txCommands(&envFile))
	return root
}

func runServe(ctx context.Context, cfg Config) error {
	logger := log.NewLogger(os.Stdout)
	logger.Info("starting ltipd", "log_level", cfg.LogLevel, "home", cfg.HomeDir)

	homeDir, err := filepath.Abs(cfg.HomeDir)
	if err != nil {
		return fmt.Errorf("resolve home dir: %w", err)
	}
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		return fmt.Errorf("create home dir: %w", err)
	}

	db, err := dbm.NewDB("ltip", dbm.GoLevelDBBackend, homeDir)
	if err != nil {
		return fmt.Errorf("open store backend: %w", err)
	}
	defer db.Close()

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	authKey := storetypes.NewKVStoreKey(authtypes.StoreKey)
	bankKey := storetypes.NewKVStoreKey(banktypes.StoreKey)
	cms := rootmulti.NewStore(db, logger, storemetrics.NoOpMetrics{})
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, nil)
	cms.MountStoreWithDB(authKey, storetypes.StoreTypeIAVL, nil)
	cms.MountStoreWithDB(bankKey, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		return fmt.Errorf("load store: %w", err)
	}

	reg := codectypes.NewInterfaceRegistry()
	registerBankInterfaces(reg)
	cdc := codec.NewProtoCodec(reg)
	clock := clockwork.NewRealClock()
	bank := newBankKeeper(cdc, authKey, bankKey, logger)

	k := keeper.NewKeeper(cdc, runtime.NewKVStoreService(storeKey), logger, clock, bank)

	storeCtx := bootstrapContext(cms, logger)
	if _, err := k.GetConfig(storeCtx); err != nil {
		if err := k.Init(storeCtx, types.Config{
			TokenID:         cfg.TokenID,
			CliffDuration:   cfg.CliffDuration,
			VestingDuration: cfg.VestingDuration,
			OwnerID:         cfg.OwnerID,
		}); err != nil {
			return fmt.Errorf("initialize ltip module: %w", err)
		}
		cms.Commit()
	}

	views := api.NewViewsAPI(logger, k, storeCtx)

	runCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return views.StartServer(runCtx, cfg.ListenAddr)
}

// bootstrapContext wraps the commit multistore in the sdk.Context every
// keeper collection call expects. Both serve and every tx invocation use
// one long-lived context bound directly to cms (not a cached snapshot),
// writing through it before cms.Commit(); later commits to cms
// are visible through it on the next call, the same way a query node
// reads its current committed state without re-deriving a context per
// block.
func bootstrapContext(cms storetypes.CommitMultiStore, logger log.Logger) sdk.Context {
	header := tmproto.Header{ChainID: "ltipd", Height: cms.LastCommitID().Version}
	return sdk.NewContext(cms, header, false, logger)
}
