package repository

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateAccountNumber is returned when an insert loses the race
	// on the account_number unique index. Callers regenerate and retry.
	ErrDuplicateAccountNumber = errors.New("account number already taken")

	// ErrDuplicateEmail is returned when the email unique index rejects an
	// insert.
	ErrDuplicateEmail = errors.New("email already registered")
)
