package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Sweat-Foundation/sweat-ltip/x/ltip/types"
)

// Members is the members(role) view (spec.md §6).
func (k Keeper) Members(ctx context.Context, role types.Role) ([]string, error) {
	if err := role.Validate(); err != nil {
		return nil, err
	}
	raw, err := k.RoleMembers.Get(ctx, string(role))
	if err != nil {
		return []string{}, nil
	}
	var members []string
	if err := json.Unmarshal([]byte(raw), &members); err != nil {
		return nil, fmt.Errorf("decode role %s members: %w", role, err)
	}
	return members, nil
}

func (k Keeper) setRoleMembers(ctx context.Context, role types.Role, members []string) error {
	raw, err := json.Marshal(members)
	if err != nil {
		return err
	}
	return k.RoleMembers.Set(ctx, string(role), string(raw))
}

// HasRole checks membership without allocating the full member list on the
// caller's behalf more than once.
func (k Keeper) HasRole(ctx context.Context, accountID string, role types.Role) (bool, error) {
	members, err := k.Members(ctx, role)
	if err != nil {
		return false, err
	}
	for _, m := range members {
		if m == accountID {
			return true, nil
		}
	}
	return false, nil
}

// GrantRole implements grant_role(account_id, role), owner-only
// (spec.md §6).
func (k Keeper) GrantRole(ctx context.Context, requester, accountID string, role types.Role) error {
	if err := k.requireOwner(ctx, requester); err != nil {
		return err
	}
	if err := role.Validate(); err != nil {
		return err
	}
	members, err := k.Members(ctx, role)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m == accountID {
			return nil // already a member; grant_role is idempotent.
		}
	}
	if err := k.setRoleMembers(ctx, role, append(members, accountID)); err != nil {
		return err
	}
	k.emitEvent(ctx, types.EventTypeGrantRole,
		sdk.NewAttribute(types.AttributeAccountID, accountID),
		sdk.NewAttribute(types.AttributeRole, string(role)),
	)
	return nil
}

// RevokeRole implements revoke_role(account_id, role), owner-only
// (spec.md §6).
func (k Keeper) RevokeRole(ctx context.Context, requester, accountID string, role types.Role) error {
	if err := k.requireOwner(ctx, requester); err != nil {
		return err
	}
	if err := role.Validate(); err != nil {
		return err
	}
	members, err := k.Members(ctx, role)
	if err != nil {
		return err
	}
	filtered := make([]string, 0, len(members))
	removed := false
	for _, m := range members {
		if m == accountID {
			removed = true
			continue
		}
		filtered = append(filtered, m)
	}
	if !removed {
		return nil // not a member; revoke_role is idempotent.
	}
	if err := k.setRoleMembers(ctx, role, filtered); err != nil {
		return err
	}
	k.emitEvent(ctx, types.EventTypeRevokeRole,
		sdk.NewAttribute(types.AttributeAccountID, accountID),
		sdk.NewAttribute(types.AttributeRole, string(role)),
	)
	return nil
}

func (k Keeper) requireOwner(ctx context.Context, requester string) error {
	cfg, err := k.GetConfig(ctx)
	if err != nil {
		return err
	}
	if requester == cfg.OwnerID {
		return nil
	}
	isOwner, err := k.HasRole(ctx, requester, types.RoleOwner)
	if err != nil {
		return err
	}
	if !isOwner {
		return fmt.Errorf("%w: %s is not an owner", types.ErrUnauthorizedRole, requester)
	}
	return nil
}

func (k Keeper) requireRole(ctx context.Context, requester string, role types.Role) error {
	ok, err := k.HasRole(ctx, requester, role)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s does not hold role %s", types.ErrUnauthorizedRole, requester, role)
	}
	return nil
}
