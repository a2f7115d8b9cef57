package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// GrantInput is one (account, amount) pair inside an issue request.
type GrantInput struct {
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
}

// MsgIssue mirrors spec.md §6's issue({issue_at, grants}) request.
type MsgIssue struct {
	Issuer  string       `json:"issuer"`
	IssueAt int64        `json:"issue_at"`
	Grants  []GrantInput `json:"grants"`
}

func (m MsgIssue) ValidateBasic() error {
	if m.Issuer == "" {
		return fmt.Errorf("issuer cannot be empty")
	}
	if len(m.Grants) == 0 {
		return fmt.Errorf("issue requires at least one grant")
	}
	for _, g := range m.Grants {
		if g.AccountID == "" {
			return fmt.Errorf("grant account_id cannot be empty")
		}
		// Amounts are plain decimal strings; NewIntFromString alone would also
		// accept digit separators ("100_000") and base prefixes ("0x10").
		for _, c := range g.Amount {
			if c < '0' || c > '9' {
				return fmt.Errorf("grant amount %q is not a valid non-negative integer", g.Amount)
			}
		}
		amt, ok := sdkmath.NewIntFromString(g.Amount)
		if !ok || amt.IsNegative() {
			return fmt.Errorf("grant amount %q is not a valid non-negative integer", g.Amount)
		}
	}
	return nil
}

// MsgClaim mirrors spec.md §6's claim({}) request: the beneficiary acting
// on all of their own grants.
type MsgClaim struct {
	Beneficiary string `json:"beneficiary"`
}

func (m MsgClaim) ValidateBasic() error {
	if m.Beneficiary == "" {
		return fmt.Errorf("beneficiary cannot be empty")
	}
	return nil
}

// MsgBuy mirrors spec.md §6's buy({account_ids, percentage}) request.
// IssuedAt, when non-nil, narrows the operation to a single grant instead
// of every grant on the named accounts (spec.md §9 / original_source).
type MsgBuy struct {
	Executor      string   `json:"executor"`
	AccountIDs    []string `json:"account_ids"`
	PercentageBps int64    `json:"percentage"`
	IssuedAt      *int64   `json:"issued_at,omitempty"`
}

func (m MsgBuy) ValidateBasic() error {
	return validateAccountSelection(m.Executor, m.AccountIDs, m.PercentageBps)
}

// MsgAuthorize mirrors spec.md §6's authorize({account_ids, percentage}).
type MsgAuthorize struct {
	Executor      string   `json:"executor"`
	AccountIDs    []string `json:"account_ids"`
	PercentageBps int64    `json:"percentage"`
	IssuedAt      *int64   `json:"issued_at,omitempty"`
}

func (m MsgAuthorize) ValidateBasic() error {
	return validateAccountSelection(m.Executor, m.AccountIDs, m.PercentageBps)
}

func validateAccountSelection(executor string, accountIDs []string, percentageBps int64) error {
	if executor == "" {
		return fmt.Errorf("executor cannot be empty")
	}
	if len(accountIDs) == 0 {
		return fmt.Errorf("at least one account_id is required")
	}
	if percentageBps < 0 || percentageBps > 10000 {
		return fmt.Errorf("percentage must be in [0, 10000] basis points")
	}
	return nil
}

// MsgTerminate mirrors spec.md §6's terminate({account_id, timestamp}).
// IssuedAt narrows to a single grant; when nil every grant on the account
// is terminated at ts (spec.md §9 per-account vs per-grant termination).
type MsgTerminate struct {
	Executor  string `json:"executor"`
	AccountID string `json:"account_id"`
	Timestamp int64  `json:"timestamp"`
	IssuedAt  *int64 `json:"issued_at,omitempty"`
}

func (m MsgTerminate) ValidateBasic() error {
	if m.Executor == "" {
		return fmt.Errorf("executor cannot be empty")
	}
	if m.AccountID == "" {
		return fmt.Errorf("account_id cannot be empty")
	}
	return nil
}

// FTTransferMessage is the structured msg carried by the FT receive hook
// (spec.md §4.4, §6): {"type": "top_up"} or {"type": "issue", "data": {...}}.
type FTTransferMessage struct {
	Type string          `json:"type"`
	Data *FTIssuePayload `json:"data,omitempty"`
}

// FTIssuePayload is the "issue" variant's data field.
type FTIssuePayload struct {
	IssueAt int64        `json:"issue_at"`
	Grants  []GrantInput `json:"grants"`
}
