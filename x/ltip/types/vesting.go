package types

import sdkmath "cosmossdk.io/math"

// VestedRaw computes how much of totalAmount has unlocked by t under a
// cliff-gated linear schedule for a grant issued at issuedAt, with the
// cliff at cliffEndAt and full unlock at vestingEndAt. It is a pure function of its
// inputs: no field reads, no clock access.
//
// Elapsed time for the linear ramp is measured from cliffEndAt, not from
// issuedAt: nothing accrues before the cliff, and the ramp from cliffEndAt
// to vestingEndAt is what the worked scenarios in the accounting spec
// exercise (a grant terminated 500s after cliff end yields a 500-token
// total, not a multi-million-token one). The denominator stays the full
// vestingDuration so that total_amount/vestingDuration is the grant's
// average per-second rate.
func VestedRaw(totalAmount sdkmath.Int, issuedAt, cliffEndAt, vestingEndAt, vestingDuration, t int64) sdkmath.Int {
	if t < issuedAt || t < cliffEndAt {
		return sdkmath.ZeroInt()
	}
	if t >= vestingEndAt {
		return totalAmount
	}
	elapsed := sdkmath.NewInt(t - cliffEndAt)
	duration := sdkmath.NewInt(vestingDuration)
	// multiply in the wide domain math.Int already provides before dividing,
	// so totalAmount*elapsed never overflows a fixed-width accumulator.
	return totalAmount.Mul(elapsed).Quo(duration)
}

// VestedAmount caps VestedRaw at totalAmount, evaluated at effectiveT (the
// grant's terminatedAt if set, else the current clock reading).
func VestedAmount(totalAmount sdkmath.Int, issuedAt, cliffEndAt, vestingEndAt, vestingDuration, effectiveT int64) sdkmath.Int {
	raw := VestedRaw(totalAmount, issuedAt, cliffEndAt, vestingEndAt, vestingDuration, effectiveT)
	if raw.GT(totalAmount) {
		return totalAmount
	}
	return raw
}

// ClaimableAmount is the vested-but-unclaimed-and-not-in-order balance,
// clamped at zero (it cannot be negative given the invariants, but the
// clamp makes the function total even if callers hand it a corrupt grant).
func ClaimableAmount(vestedAmount, claimedAmount, orderAmount sdkmath.Int) sdkmath.Int {
	claimable := vestedAmount.Sub(claimedAmount).Sub(orderAmount)
	if claimable.IsNegative() {
		return sdkmath.ZeroInt()
	}
	return claimable
}
