package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// Grant is a single vesting allocation to one account, keyed by IssuedAt
// within that account (spec §3).
type Grant struct {
	AccountID     string      `json:"account_id"`
	IssuedAt      int64       `json:"issued_at"`
	TotalAmount   sdkmath.Int `json:"total_amount"`
	ClaimedAmount sdkmath.Int `json:"claimed_amount"`
	OrderAmount   sdkmath.Int `json:"order_amount"`
	TerminatedAt  *int64      `json:"terminated_at,omitempty"`
}

// NewGrant builds a freshly issued grant with zero claimed/order balances.
func NewGrant(accountID string, issuedAt int64, totalAmount sdkmath.Int) Grant {
	return Grant{
		AccountID:     accountID,
		IssuedAt:      issuedAt,
		TotalAmount:   totalAmount,
		ClaimedAmount: sdkmath.ZeroInt(),
		OrderAmount:   sdkmath.ZeroInt(),
	}
}

// Clone deep-copies the grant, including the TerminatedAt pointer, so a
// caller can snapshot a grant before a tentative mutation and restore the
// snapshot verbatim on rollback (spec §4.5, §9).
func (g Grant) Clone() Grant {
	clone := g
	if g.TerminatedAt != nil {
		ts := *g.TerminatedAt
		clone.TerminatedAt = &ts
	}
	return clone
}

// CliffEndAt and VestingEndAt are derived from the grant's IssuedAt and the
// module's immutable Config (spec §3).
func (g Grant) CliffEndAt(cfg Config) int64   { return g.IssuedAt + cfg.CliffDuration }
func (g Grant) VestingEndAt(cfg Config) int64 { return g.IssuedAt + cfg.VestingDuration }

// IsTerminated reports whether terminate has already run on this grant.
func (g Grant) IsTerminated() bool { return g.TerminatedAt != nil }

// effectiveT is the timestamp vesting math should evaluate at: the
// grant's terminated_at once terminate has run (the schedule after that
// point is frozen), else the caller-supplied clock reading.
func (g Grant) effectiveT(now int64) int64 {
	if g.TerminatedAt != nil {
		return *g.TerminatedAt
	}
	return now
}

// VestedAmount at the grant's effective time (spec §3).
func (g Grant) VestedAmount(cfg Config, now int64) sdkmath.Int {
	return VestedAmount(
		g.TotalAmount,
		g.IssuedAt,
		g.CliffEndAt(cfg),
		g.VestingEndAt(cfg),
		cfg.VestingDuration,
		g.effectiveT(now),
	)
}

// NotVestedAmount is the read-only complement of VestedAmount.
func (g Grant) NotVestedAmount(cfg Config, now int64) sdkmath.Int {
	return g.TotalAmount.Sub(g.VestedAmount(cfg, now))
}

// ClaimableAmount is vested-but-unclaimed-and-not-ordered, clamped at zero.
func (g Grant) ClaimableAmount(cfg Config, now int64) sdkmath.Int {
	return ClaimableAmount(g.VestedAmount(cfg, now), g.ClaimedAmount, g.OrderAmount)
}

// Claim crystallizes the currently claimable balance into OrderAmount.
// A zero claimable amount is a no-op, not an error (spec §4.2).
func (g *Grant) Claim(cfg Config, now int64) sdkmath.Int {
	claimable := g.ClaimableAmount(cfg, now)
	if claimable.IsZero() {
		return claimable
	}
	g.OrderAmount = g.OrderAmount.Add(claimable)
	return claimable
}

// Buy pays percentageBps (basis points, 0..10000) of the outstanding order
// out of the grant's reservation: OrderAmount shrinks, ClaimedAmount grows
// by the same payout. The caller (the keeper dispatcher) is responsible
// for moving payout out of the treasury and for rolling back this mutation
// if the transfer fails. Returns the payout amount; zero payout is a
// no-op (spec §4.2).
func (g *Grant) Buy(percentageBps int64) (sdkmath.Int, error) {
	payout, err := g.orderPayout(percentageBps)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}
	if payout.IsZero() {
		return payout, nil
	}
	g.OrderAmount = g.OrderAmount.Sub(payout)
	g.ClaimedAmount = g.ClaimedAmount.Add(payout)
	return payout, nil
}

// Authorize is Buy's treasury-free sibling: it retires the same fraction of
// the order but the caller never debits spare_balance for it, because the
// tokens are assumed to reach the beneficiary over an out-of-band rail.
func (g *Grant) Authorize(percentageBps int64) (sdkmath.Int, error) {
	return g.Buy(percentageBps)
}

func (g Grant) orderPayout(percentageBps int64) (sdkmath.Int, error) {
	if percentageBps < 0 || percentageBps > 10000 {
		return sdkmath.ZeroInt(), fmt.Errorf("percentage must be in [0, 10000] basis points, got %d", percentageBps)
	}
	if g.OrderAmount.IsZero() {
		return sdkmath.ZeroInt(), nil
	}
	return g.OrderAmount.MulRaw(percentageBps).QuoRaw(10000), nil
}

// Terminate caps TotalAmount to the grant's vested value at ts, clawing
// back the difference, clamping ClaimedAmount protection, and trimming any
// order portion the cap displaces (spec §4.2). Returns the amount clawed
// back to the treasury.
func (g *Grant) Terminate(cfg Config, ts int64) (sdkmath.Int, error) {
	if g.IsTerminated() {
		return sdkmath.ZeroInt(), ErrAlreadyTerminated
	}

	newTotal := VestedAmount(
		g.TotalAmount,
		g.IssuedAt,
		g.CliffEndAt(cfg),
		g.VestingEndAt(cfg),
		cfg.VestingDuration,
		ts,
	)

	// The contract refuses to retroactively revoke already-paid tokens.
	if newTotal.LT(g.ClaimedAmount) {
		newTotal = g.ClaimedAmount
	}

	released := g.TotalAmount.Sub(newTotal)
	g.TotalAmount = newTotal

	// The displaced order portion is cancelled; it can never exceed what
	// remains unclaimed of the new (possibly lower) total.
	maxOrder := g.TotalAmount.Sub(g.ClaimedAmount)
	if g.OrderAmount.GT(maxOrder) {
		g.OrderAmount = maxOrder
	}

	tsCopy := ts
	g.TerminatedAt = &tsCopy

	return released, nil
}
