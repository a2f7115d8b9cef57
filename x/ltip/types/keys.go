package types

const (
	// ModuleName defines the module name.
	ModuleName = "ltip"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName
)

var (
	// ConfigKey stores the immutable Config.
	ConfigKey = []byte{0x01}

	// SpareBalanceKey stores the treasury's spare_balance counter.
	SpareBalanceKey = []byte{0x02}

	// AccountKeyPrefix prefixes per-account JSON-encoded Account records.
	AccountKeyPrefix = []byte{0x03}

	// RoleMemberKeyPrefix prefixes the per-role JSON-encoded list of member
	// account ids.
	RoleMemberKeyPrefix = []byte{0x04}
)
