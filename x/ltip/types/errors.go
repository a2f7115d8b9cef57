package types

import "errors"

// Sentinel errors whose Error() text is observable at the module boundary
// and must match byte-for-byte across client implementations.
var (
	ErrUnauthorizedRole         = errors.New("Unauthorized role")
	ErrInsufficientSpareBalance = errors.New("Insufficient spare balance")
	ErrGrantAlreadyExists       = errors.New("A grant has alredy been issued on this date")
	ErrAlreadyTerminated        = errors.New("AlreadyTerminated")
	ErrMalformedMessage         = errors.New("malformed message")
	ErrAccountNotFound          = errors.New("account not found")
	ErrGrantNotFound            = errors.New("grant not found")
)

// WrongTokenSenderError formats the FT-receive-hook rejection, parameterized
// by the configured token id so the message names the one contract the hook
// accepts transfers from.
func WrongTokenSenderError(tokenID string) error {
	return errors.New("Can only receive tokens from " + tokenID)
}
