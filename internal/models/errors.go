package models

import "errors"

// Domain errors. Services return these (possibly wrapped with %w to add
// detail); handlers translate them to HTTP status codes with errors.Is.
var (
	// ErrUserNotFound maps to 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrAccountNotFound maps to 404.
	ErrAccountNotFound = errors.New("account not found")

	// ErrForbidden means the requester does not own the resource. Maps to 403.
	ErrForbidden = errors.New("forbidden")

	// ErrSelfTransfer rejects a transfer where source and destination are the
	// same account. Maps to 400.
	ErrSelfTransfer = errors.New("cannot transfer to the same account")

	// ErrCurrencyMismatch rejects a transfer between accounts of different
	// currencies. Maps to 400.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrNonPositiveAmount rejects a zero or negative transfer amount. Maps to 400.
	ErrNonPositiveAmount = errors.New("amount must be greater than zero")

	// ErrInsufficientFunds maps to 422.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrEmailTaken signals a duplicate registration. Maps to 409.
	ErrEmailTaken = errors.New("email already registered")

	// ErrTransferConflict is returned under the optimistic transfer guard when
	// a concurrent writer changed the source balance between the funds check
	// and the commit. Retryable by the caller. Maps to 409.
	ErrTransferConflict = errors.New("transfer conflict")

	// ErrAccountNumberExhausted is returned when repeated account-number draws
	// all collided with existing accounts. Maps to 409.
	ErrAccountNumberExhausted = errors.New("could not allocate a unique account number")
)
