package keeper

import (
	"context"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

// InitGenesis seeds the keeper's collections from a validated GenesisState.
func (k Keeper) InitGenesis(ctx context.Context, gs types.GenesisState) error {
	if err := gs.Validate(); err != nil {
		return err
	}
	if err := k.setConfig(ctx, gs.Config); err != nil {
		return err
	}
	if err := k.setSpareBalance(ctx, gs.SpareBalance); err != nil {
		return err
	}
	for _, acc := range gs.Accounts {
		if err := k.upsertAccount(ctx, acc); err != nil {
			return err
		}
	}
	for role, members := range gs.RoleMembers {
		if err := k.setRoleMembers(ctx, role, members); err != nil {
			return err
		}
	}
	if len(gs.RoleMembers[types.RoleOwner]) == 0 {
		if err := k.setRoleMembers(ctx, types.RoleOwner, []string{gs.Config.OwnerID}); err != nil {
			return err
		}
	}
	return nil
}

// ExportGenesis reads the keeper's entire state back into a GenesisState.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := k.GetSpareBalance(ctx)
	if err != nil {
		return nil, err
	}
	accounts, err := k.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	roleMembers := make(map[types.Role][]string)
	for _, role := range []types.Role{types.RoleOwner, types.RoleIssuer, types.RoleExecutor} {
		members, err := k.Members(ctx, role)
		if err != nil {
			return nil, err
		}
		if len(members) > 0 {
			roleMembers[role] = members
		}
	}

	return &types.GenesisState{
		Config:       cfg,
		SpareBalance: balance,
		Accounts:     accounts,
		RoleMembers:  roleMembers,
	}, nil
}
