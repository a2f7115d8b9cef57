package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

// GetSpareBalance is the get_spare_balance() view (spec.md §6), returned
// as a decimal string at the call site the way the wire interface demands.
func (k Keeper) GetSpareBalance(ctx context.Context) (sdkmath.Int, error) {
	raw, err := k.SpareBalance.Get(ctx)
	if err != nil {
		return sdkmath.ZeroInt(), nil
	}
	return unmarshalInt(raw)
}

func (k Keeper) setSpareBalance(ctx context.Context, v sdkmath.Int) error {
	return k.SpareBalance.Set(ctx, marshalInt(v))
}

// topUp increases spare_balance by amount (spec.md §4.4). The caller is
// responsible for authorization (issuer role, correct token sender) and
// for having already received the underlying transfer: on the real chain
// the FT contract's transfer into the module account lands before this
// runs. This standalone daemon has no such incoming-transfer pipeline of
// its own, so when a real bank keeper is wired it mints the same amount
// into the module account here, as the local substitute for that
// already-landed external transfer — without it, buy()'s payout below
// would have no real funds to draw against.
func (k Keeper) topUp(ctx context.Context, amount sdkmath.Int) error {
	balance, err := k.GetSpareBalance(ctx)
	if err != nil {
		return err
	}
	if k.bank != nil {
		cfg, err := k.GetConfig(ctx)
		if err != nil {
			return err
		}
		if err := k.bank.MintCoins(ctx, types.ModuleName, types.AmountToCoin(cfg.TokenID, amount)); err != nil {
			return err
		}
	}
	return k.setSpareBalance(ctx, balance.Add(amount))
}

// issueGrants is the direct-path issue() body (spec.md §4.4): it debits
// spare_balance by the sum of the requested amounts and creates one grant
// per (account_id, amount) pair at issueAt, failing the whole operation
// (no partial effect) if the sum exceeds spare_balance or any account
// already has a grant at issueAt.
func (k Keeper) issueGrants(ctx context.Context, issueAt int64, grants []types.GrantInput) error {
	sum := sdkmath.ZeroInt()
	order := make([]string, 0, len(grants))
	amounts := make(map[string]sdkmath.Int, len(grants))

	for _, g := range grants {
		amount, ok := sdkmath.NewIntFromString(g.Amount)
		if !ok || amount.IsNegative() {
			return types.ErrMalformedMessage
		}
		// issue_at is shared across the whole batch, so two entries for the
		// same account here are the same GrantAlreadyExistsOnDate collision
		// the per-account store enforces below, just not caught by it yet
		// since both would be read against the same unmodified stored
		// account.
		if _, dup := amounts[g.AccountID]; dup {
			return types.ErrGrantAlreadyExists
		}
		amounts[g.AccountID] = amount
		order = append(order, g.AccountID)
		sum = sum.Add(amount)
	}

	balance, err := k.GetSpareBalance(ctx)
	if err != nil {
		return err
	}
	if sum.GT(balance) {
		return types.ErrInsufficientSpareBalance
	}

	// Pre-flight every account for a date collision before mutating
	// anything: issue is all-or-nothing (spec.md §4.4, §7).
	accounts := make([]types.Account, len(order))
	for i, accountID := range order {
		acc, err := k.mustGetOrCreateAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if acc.HasIssuedAt(issueAt) {
			return types.ErrGrantAlreadyExists
		}
		accounts[i] = acc
	}

	for i, accountID := range order {
		accounts[i].AppendGrant(types.NewGrant(accountID, issueAt, amounts[accountID]))
		if err := k.upsertAccount(ctx, accounts[i]); err != nil {
			return err
		}
	}

	return k.setSpareBalance(ctx, balance.Sub(sum))
}
