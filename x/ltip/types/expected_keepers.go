package types

import (
	"context"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BankKeeper is the fungible-token transfer collaborator spec.md §1/§6
// treats as out of scope for this module: the engine only needs to move
// value into and out of its own module account. Modeled on the expected-
// keeper interfaces the teacher declares for its own collaborators (e.g.
// x/validator's StakingKeeper/SlashingKeeper).
type BankKeeper interface {
	SendCoinsFromAccountToModule(ctx context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error
	SendCoinsFromModuleToAccount(ctx context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin
	MintCoins(ctx context.Context, moduleName string, amt sdk.Coins) error
}

// AmountToCoin renders an sdkmath.Int ledger amount as a single sdk.Coin in
// the module's configured token denom, for calls into BankKeeper.
func AmountToCoin(denom string, amount sdkmath.Int) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(denom, amount))
}
