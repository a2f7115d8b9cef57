package main

import (
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/codec"
	authcodec "github.com/cosmos/cosmos-sdk/codec/address"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/std"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

// accountAddressPrefix matches the default sdk.GetConfig() bech32 prefix
// ("cosmos") rather than a custom one: cmd/ltipd never calls
// sdk.GetConfig().SetBech32PrefixForAccount, so every address the daemon
// already parses (dispatcher.go's sendFromTreasury) decodes under the
// default prefix, and the account codec below has to agree with it.
const accountAddressPrefix = "cosmos"

// maccPerms grants the ltip module account Minter rights only, mirroring
// app.go's maccPerms map (e.g. minttypes.ModuleName: {authtypes.Minter}).
// Nothing in this module ever burns or delegates, so no other permission
// is listed.
var maccPerms = map[string][]string{
	types.ModuleName: {authtypes.Minter},
}

// registerBankInterfaces wires the account/bank proto interfaces a real
// bank keeper needs into reg, the way app.go's MakeEncodingConfig runs
// std.RegisterInterfaces plus every wired module's RegisterInterfaces
// before any keeper touching those types is constructed.
func registerBankInterfaces(reg codectypes.InterfaceRegistry) {
	std.RegisterInterfaces(reg)
	authtypes.RegisterInterfaces(reg)
	banktypes.RegisterInterfaces(reg)
}

// newBankKeeper constructs the real x/auth + x/bank keepers over authKey/
// bankKey, grounded on app.go's initStandardKeepers: an AccountKeeper
// feeds the BankKeeper its address codec and module permissions, and the
// resulting bankkeeper.BaseKeeper is what backs types.BankKeeper for
// cmd/ltipd's own keeper instead of the nil stand-in the views-only daemon
// used to pass. There is no x/gov module here to own bank's params, so the
// ltip module address stands in as its own params authority.
func newBankKeeper(cdc codec.Codec, authKey, bankKey *storetypes.KVStoreKey, logger log.Logger) types.BankKeeper {
	authority := authtypes.NewModuleAddress(types.ModuleName).String()

	accountKeeper := authkeeper.NewAccountKeeper(
		cdc,
		runtime.NewKVStoreService(authKey),
		authtypes.ProtoBaseAccount,
		maccPerms,
		authcodec.NewBech32Codec(accountAddressPrefix),
		accountAddressPrefix,
		authority,
	)

	return bankkeeper.NewBaseKeeper(
		cdc,
		runtime.NewKVStoreService(bankKey),
		accountKeeper,
		map[string]bool{},
		authority,
		logger,
	)
}
