package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Every engine
// operation raises these synchronously from inside its atomic unit;
// the HTTP layer maps them to response codes.

var (
	// Missing referents
	ErrMemberNotFound     = errors.New("member not found")
	ErrAccountNotFound    = errors.New("treasury account not found")
	ErrInvestmentNotFound = errors.New("investment not found")
	ErrEntryNotFound      = errors.New("ledger entry not found")
	ErrNoPrimaryAccount   = errors.New("no primary treasury account configured")

	// Write-path rejections
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidPolicy     = errors.New("fine policy missing or invalid")
	ErrValidation        = errors.New("invalid operation fields")
)
