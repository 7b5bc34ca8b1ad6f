package wallet

import "errors"

// State precondition errors. These are returned without mutating wallet
// state; the caller's request simply does not apply to the current state.
var (
	// ErrAlreadyInitialized is returned by Create when the wallet is not
	// Uninitialized.
	ErrAlreadyInitialized = errors.New("wallet: already initialized")

	// ErrNotLocked is returned by Unlock when the wallet is not Locked.
	ErrNotLocked = errors.New("wallet: not locked")

	// ErrLocked is returned by Sign, PublicKey, and GetAddress when the
	// wallet is not Unlocked.
	ErrLocked = errors.New("wallet: locked")

	// ErrWrongPIN is returned by Unlock on a PIN digest mismatch.
	ErrWrongPIN = errors.New("wallet: wrong PIN")

	// ErrPINTooShort is returned by Create when the PIN is shorter than
	// MinPINLength.
	ErrPINTooShort = errors.New("wallet: PIN too short")

	// ErrUnknownAccount is returned for an account index this
	// implementation does not derive a key for.
	ErrUnknownAccount = errors.New("wallet: unknown account")
)
