package types

// Account is a beneficiary identity plus the ordered set of grants issued
// to it (spec §3). Grants are appended in issuance order; IssuedAt is the
// unique per-account key.
type Account struct {
	AccountID string  `json:"account_id"`
	Grants    []Grant `json:"grants"`
}

// GrantByIssuedAt returns a pointer into a.Grants so callers can mutate the
// stored grant in place before the caller re-persists the whole account.
func (a *Account) GrantByIssuedAt(issuedAt int64) *Grant {
	for i := range a.Grants {
		if a.Grants[i].IssuedAt == issuedAt {
			return &a.Grants[i]
		}
	}
	return nil
}

// HasIssuedAt reports whether a grant already occupies this account's
// issued_at slot (spec §4.3 GrantAlreadyExistsOnDate).
func (a Account) HasIssuedAt(issuedAt int64) bool {
	for _, g := range a.Grants {
		if g.IssuedAt == issuedAt {
			return true
		}
	}
	return false
}

// AppendGrant adds a new grant, preserving insertion order.
func (a *Account) AppendGrant(g Grant) {
	a.Grants = append(a.Grants, g)
}

// Clone deep-copies the account and every grant it holds.
func (a Account) Clone() Account {
	clone := Account{AccountID: a.AccountID, Grants: make([]Grant, len(a.Grants))}
	for i, g := range a.Grants {
		clone.Grants[i] = g.Clone()
	}
	return clone
}
