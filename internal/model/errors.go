package model

import "errors"

// Ledger rule violations. Services translate these into business codes at
// the HTTP boundary; they are matched with errors.Is.
var (
	// ErrAccountNotActive means an Inactive or Closed account was asked to
	// move money.
	ErrAccountNotActive = errors.New("account is not active")

	// ErrInsufficientBalance means a debit would drive the balance negative.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrSameAccount means a transfer named the same account as source and
	// destination.
	ErrSameAccount = errors.New("source and destination accounts are the same")
)
