package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// GenesisState captures everything InitGenesis/ExportGenesis round-trip.
type GenesisState struct {
	Config       Config            `json:"config"`
	SpareBalance sdkmath.Int       `json:"spare_balance"`
	Accounts     []Account         `json:"accounts"`
	RoleMembers  map[Role][]string `json:"role_members"`
}

// DefaultGenesis returns an empty, zero-value genesis. Config is left for
// the app wiring the module to fill in at construction time (spec §6's
// `new` constructor), matching the teacher's DefaultGenesis pattern of
// leaving caller-supplied fields unset rather than guessing values.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		SpareBalance: sdkmath.ZeroInt(),
		Accounts:     []Account{},
		RoleMembers:  map[Role][]string{},
	}
}

// Validate checks genesis-level structural invariants: the config, a
// non-negative spare_balance, unique account ids, unique issued_at per
// account, claimed+order <= total per grant, and known role names. The
// history-dependent invariants (monotonic totals and claims, at-most-once
// termination) and conservation against the external token balance are
// not checked here.
func (gs GenesisState) Validate() error {
	if err := gs.Config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if gs.SpareBalance.IsNil() || gs.SpareBalance.IsNegative() {
		return fmt.Errorf("spare_balance must be a non-negative integer")
	}

	seenAccounts := make(map[string]struct{}, len(gs.Accounts))
	for _, acc := range gs.Accounts {
		if _, dup := seenAccounts[acc.AccountID]; dup {
			return fmt.Errorf("duplicate account %q in genesis", acc.AccountID)
		}
		seenAccounts[acc.AccountID] = struct{}{}

		seenIssuedAt := make(map[int64]struct{}, len(acc.Grants))
		for _, g := range acc.Grants {
			if _, dup := seenIssuedAt[g.IssuedAt]; dup {
				return fmt.Errorf("account %q has two grants issued_at %d", acc.AccountID, g.IssuedAt)
			}
			seenIssuedAt[g.IssuedAt] = struct{}{}

			if g.ClaimedAmount.Add(g.OrderAmount).GT(g.TotalAmount) {
				return fmt.Errorf("grant %s/%d violates claimed+order<=total", acc.AccountID, g.IssuedAt)
			}
		}
	}

	for role := range gs.RoleMembers {
		if err := role.Validate(); err != nil {
			return err
		}
	}

	return nil
}
