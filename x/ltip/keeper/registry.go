package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

// GetAccount is the get_account(account_id) view (spec.md §3, §6). A
// missing account is reported as (nil, nil) rather than an error, matching
// "an account with zero grants may be absent".
func (k Keeper) GetAccount(ctx context.Context, accountID string) (*types.Account, error) {
	raw, err := k.Accounts.Get(ctx, accountID)
	if err != nil {
		return nil, nil
	}
	var acc types.Account
	if err := json.Unmarshal([]byte(raw), &acc); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", accountID, err)
	}
	return &acc, nil
}

// mustGetOrCreateAccount returns the stored account or a fresh, unsaved one.
func (k Keeper) mustGetOrCreateAccount(ctx context.Context, accountID string) (types.Account, error) {
	acc, err := k.GetAccount(ctx, accountID)
	if err != nil {
		return types.Account{}, err
	}
	if acc == nil {
		return types.Account{AccountID: accountID}, nil
	}
	return *acc, nil
}

// upsertAccount persists the given account verbatim (C3 upsert).
func (k Keeper) upsertAccount(ctx context.Context, acc types.Account) error {
	raw, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	return k.Accounts.Set(ctx, acc.AccountID, string(raw))
}

// ListAccounts returns every account in the registry, in the order a
// collections.Map.Walk visits its keys. Used by the paginated views
// gateway (SPEC_FULL.md §4, original_source's get_accounts).
func (k Keeper) ListAccounts(ctx context.Context) ([]types.Account, error) {
	var out []types.Account
	err := k.Accounts.Walk(ctx, nil, func(_ string, raw string) (bool, error) {
		var acc types.Account
		if err := json.Unmarshal([]byte(raw), &acc); err != nil {
			return false, err
		}
		out = append(out, acc)
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListAccountsPage mirrors original_source's get_accounts(from_index,
// limit): a slice of ListAccounts starting at fromIndex, capped at limit
// entries. limit <= 0 means "no cap". An out-of-range fromIndex returns an
// empty page rather than an error, matching get_account's "absent means
// empty, not an error" convention.
func (k Keeper) ListAccountsPage(ctx context.Context, fromIndex, limit int) ([]types.Account, error) {
	all, err := k.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if fromIndex < 0 {
		fromIndex = 0
	}
	if fromIndex >= len(all) {
		return []types.Account{}, nil
	}
	end := len(all)
	if limit > 0 && fromIndex+limit < end {
		end = fromIndex + limit
	}
	return all[fromIndex:end], nil
}
