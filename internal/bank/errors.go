package bank

import "errors"

var (
	// ErrAccountNotFound occurs when an operation references an account name
	// absent from the ledger.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAmount occurs when an amount is non-positive where a positive
	// amount is required, when an initial balance is negative, or when a loan
	// repayment exceeds the outstanding loan.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds occurs when a withdrawal exceeds the current balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrLoanLimitExceeded occurs when a requested loan exceeds the configured
	// per-request ceiling.
	ErrLoanLimitExceeded = errors.New("loan limit exceeded")

	// ErrDuplicateAccount occurs when account creation is requested for a name
	// that already exists.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrInvalidName occurs when account creation is requested with an empty name.
	ErrInvalidName = errors.New("account name must not be empty")
)
