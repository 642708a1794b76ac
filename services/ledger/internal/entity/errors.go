package entity

import "errors"

// Validation
var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrOutOfRange      = errors.New("amount must be between R10 and R10000")
	ErrMissingFields   = errors.New("missing required fields")
	ErrBelowMinimum    = errors.New("minimum withdrawal is R1000")
	ErrInvalidCapacity = errors.New("max attendees must be positive")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidProduct  = errors.New("product type must be PHYSICAL or DIGITAL")
)

var ErrForbidden = errors.New("role not permitted")

// Not found
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionNotFound     = errors.New("session not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrTransactionNotFound = errors.New("transaction not found")
)

// Conflict
var (
	ErrAlreadyRegistered = errors.New("already registered for this session")
	ErrSessionFull       = errors.New("session is full")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrInvalidTransition = errors.New("invalid transaction status transition")
	ErrNothingToExport   = errors.New("no pending withdrawals to export")
)

var (
	ErrInsufficientFunds   = errors.New("insufficient coins")
	ErrInsufficientBalance = errors.New("insufficient available balance")
)
