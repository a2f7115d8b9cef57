package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cosmossdk.io/log"
	storemetrics "cosmossdk.io/store/metrics"
	"cosmossdk.io/store/rootmulti"
	storetypes "cosmossdk.io/store/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/keeper"
	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

// txCommands builds the tx subcommand tree. There is no generated sdk.Msg
// service or signing flow in this retrieval pack, so each subcommand opens
// the on-disk store directly (same backend runServe serves from) and calls
// the keeper in-process, then commits before exiting — a local analogue of
// aethelredd's `attestation` tx subcommand, which submits a file-backed
// request against a running chain instead.
func txCommands(envFile *string) *cobra.Command {
	tx := &cobra.Command{
		Use:   "tx",
		Short: "Submit a ltip state transition against the local store",
	}

	tx.AddCommand(issueTxCommand(envFile))
	tx.AddCommand(claimTxCommand(envFile))
	tx.AddCommand(buyTxCommand(envFile))
	tx.AddCommand(authorizeTxCommand(envFile))
	tx.AddCommand(terminateTxCommand(envFile))

	return tx
}

// withStore opens cfg.HomeDir's store, runs fn against a bootstrapped
// sdk.Context, commits on success, and always closes the backend.
func withStore(ctx context.Context, cfg Config, fn func(context.Context, keeper.Keeper) error) error {
	logger := log.NewLogger(os.Stdout)

	homeDir, err := filepath.Abs(cfg.HomeDir)
	if err != nil {
		return fmt.Errorf("resolve home dir: %w", err)
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
	bank := newBankKeeper(cdc, authKey, bankKey, logger)
	k := keeper.NewKeeper(cdc, runtime.NewKVStoreService(storeKey), logger, clockwork.NewRealClock(), bank)

	storeCtx := bootstrapContext(cms, logger)
	if err := fn(storeCtx, k); err != nil {
		return err
	}
	cms.Commit()
	return nil
}

func issueTxCommand(envFile *string) *cobra.Command {
	var issuer string
	var issueAt int64
	var grantsJSON string

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue one or more grants against the spare balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			var grants []types.GrantInput
			if err := json.Unmarshal([]byte(grantsJSON), &grants); err != nil {
				return fmt.Errorf("parse --grants: %w", err)
			}
			return withStore(cmd.Context(), cfg, func(ctx context.Context, k keeper.Keeper) error {
				return k.Issue(ctx, types.MsgIssue{Issuer: issuer, IssueAt: issueAt, Grants: grants})
			})
		},
	}
	cmd.Flags().StringVar(&issuer, "issuer", "", "account id holding the issuer role")
	cmd.Flags().Int64Var(&issueAt, "issue-at", 0, "unix seconds shared by every grant in this call")
	cmd.Flags().StringVar(&grantsJSON, "grants", "", `JSON array of {"account_id":"...","amount":"..."}`)
	_ = cmd.MarkFlagRequired("issuer")
	_ = cmd.MarkFlagRequired("grants")
	return cmd
}

func claimTxCommand(envFile *string) *cobra.Command {
	var beneficiary string

	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Crystallize an account's vested amount into its order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			return withStore(cmd.Context(), cfg, func(ctx context.Context, k keeper.Keeper) error {
				return k.Claim(ctx, types.MsgClaim{Beneficiary: beneficiary})
			})
		},
	}
	cmd.Flags().StringVar(&beneficiary, "beneficiary", "", "account id claiming its own grants")
	_ = cmd.MarkFlagRequired("beneficiary")
	return cmd
}

func buyTxCommand(envFile *string) *cobra.Command {
	var executor, accountIDsCSV string
	var percentageBps int64
	var issuedAt int64
	var hasIssuedAt bool

	cmd := &cobra.Command{
		Use:   "buy",
		Short: "Pay out percentage of each account's pending order from the treasury",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			msg := types.MsgBuy{
				Executor:      executor,
				AccountIDs:    strings.Split(accountIDsCSV, ","),
				PercentageBps: percentageBps,
			}
			if hasIssuedAt {
				msg.IssuedAt = &issuedAt
			}
			return withStore(cmd.Context(), cfg, func(ctx context.Context, k keeper.Keeper) error {
				return k.Buy(ctx, msg)
			})
		},
	}
	cmd.Flags().StringVar(&executor, "executor", "", "account id holding the executor role")
	cmd.Flags().StringVar(&accountIDsCSV, "account-ids", "", "comma-separated account ids")
	cmd.Flags().Int64Var(&percentageBps, "percentage", 0, "percentage of each pending order to buy, in basis points")
	cmd.Flags().Int64Var(&issuedAt, "issued-at", 0, "narrow to a single grant by its issue timestamp")
	cmd.Flags().BoolVar(&hasIssuedAt, "has-issued-at", false, "set to target exactly one grant with --issued-at")
	_ = cmd.MarkFlagRequired("executor")
	_ = cmd.MarkFlagRequired("account-ids")
	return cmd
}

func authorizeTxCommand(envFile *string) *cobra.Command {
	var executor, accountIDsCSV string
	var percentageBps int64
	var issuedAt int64
	var hasIssuedAt bool

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Reduce each account's pending order without moving treasury funds",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			msg := types.MsgAuthorize{
				Executor:      executor,
				AccountIDs:    strings.Split(accountIDsCSV, ","),
				PercentageBps: percentageBps,
			}
			if hasIssuedAt {
				msg.IssuedAt = &issuedAt
			}
			return withStore(cmd.Context(), cfg, func(ctx context.Context, k keeper.Keeper) error {
				return k.Authorize(ctx, msg)
			})
		},
	}
	cmd.Flags().StringVar(&executor, "executor", "", "account id holding the executor role")
	cmd.Flags().StringVar(&accountIDsCSV, "account-ids", "", "comma-separated account ids")
	cmd.Flags().Int64Var(&percentageBps, "percentage", 0, "percentage of each pending order to authorize, in basis points")
	cmd.Flags().Int64Var(&issuedAt, "issued-at", 0, "narrow to a single grant by its issue timestamp")
	cmd.Flags().BoolVar(&hasIssuedAt, "has-issued-at", false, "set to target exactly one grant with --issued-at")
	_ = cmd.MarkFlagRequired("executor")
	_ = cmd.MarkFlagRequired("account-ids")
	return cmd
}

func terminateTxCommand(envFile *string) *cobra.Command {
	var executor, accountID string
	var timestamp int64
	var issuedAt int64
	var hasIssuedAt bool

	cmd := &cobra.Command{
		Use:   "terminate",
		Short: "Terminate one or all of an account's grants as of a timestamp",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*envFile)
			if err != nil {
				return err
			}
			msg := types.MsgTerminate{Executor: executor, AccountID: accountID, Timestamp: timestamp}
			if hasIssuedAt {
				msg.IssuedAt = &issuedAt
			}
			return withStore(cmd.Context(), cfg, func(ctx context.Context, k keeper.Keeper) error {
				return k.Terminate(ctx, msg)
			})
		},
	}
	cmd.Flags().StringVar(&executor, "executor", "", "account id holding the executor role")
	cmd.Flags().StringVar(&accountID, "account-id", "", "account to terminate grants on")
	cmd.Flags().Int64Var(&timestamp, "timestamp", 0, "unix seconds the termination takes effect at")
	cmd.Flags().Int64Var(&issuedAt, "issued-at", 0, "narrow to a single grant by its issue timestamp")
	cmd.Flags().BoolVar(&hasIssuedAt, "has-issued-at", false, "set to target exactly one grant with --issued-at")
	_ = cmd.MarkFlagRequired("executor")
	_ = cmd.MarkFlagRequired("account-id")
	return cmd
}
