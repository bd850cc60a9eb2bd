package ledger

import "errors"

// Domain errors of the account core.  Sentinel variables let callers detect
// conditions via errors.Is instead of brittle string comparisons.

var (
	// ErrAccountAlreadyExists is returned when creating an account whose id
	// is already present.
	ErrAccountAlreadyExists = errors.New("ledger: account already exists")

	// ErrAccountNotFound is returned when the referenced account does not
	// exist.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrInsufficientFunds is returned when a withdrawal would drive the
	// balance negative.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")

	// ErrInvalidAmount indicates a non-positive amount or a negative initial
	// balance.  It is enforced by the facade; the ledger core stays
	// permissive and applies amounts as given.
	ErrInvalidAmount = errors.New("ledger: invalid amount")
)
