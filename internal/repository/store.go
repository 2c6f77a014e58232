package repository

import (
	"context"

	"bankcore/internal/model"
)

// AccountRepository is the storage surface the core needs for accounts.
// Accounts are always resolved by their business key, never by row id.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByNumber(ctx context.Context, accountNumber string) (*model.Account, error)
	// GetActiveByNumber resolves an account with status Active, returning
	// ErrAccountNotFound for missing and non-Active accounts alike.
	GetActiveByNumber(ctx context.Context, accountNumber string) (*model.Account, error)
	// GetByNumberForUpdate resolves an account under an exclusive row lock.
	// Only meaningful on a transaction-scoped Store; the lock is held until
	// the surrounding unit of work commits or rolls back.
	GetByNumberForUpdate(ctx context.Context, accountNumber string) (*model.Account, error)
	Update(ctx context.Context, account *model.Account) error
	UpdateStatus(ctx context.Context, accountNumber, status string) error
	NumberExists(ctx context.Context, accountNumber string) (bool, error)
	// Search lists accounts whose number, name, email or phone contains the
	// query. An empty query lists everything, newest first.
	Search(ctx context.Context, query string) ([]*model.Account, error)
}

// TransactionRepository persists and reads the immutable audit records.
// There is deliberately no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction) error
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	// ListByAccount returns transactions where the account appears on
	// either side, newest first. transactionType filters by type when
	// non-empty. page is 1-based.
	ListByAccount(ctx context.Context, accountID int64, transactionType string, page, pageSize int) ([]*model.Transaction, int64, error)
}

// OutboxRepository stores transaction events awaiting publication.
type OutboxRepository interface {
	Create(ctx context.Context, msg *model.OutboxMessage) error
	GetPendingMessages(ctx context.Context, limit int) ([]*model.OutboxMessage, error)
	GetFailedMessages(ctx context.Context, limit int) ([]*model.OutboxMessage, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	IncrementRetryCount(ctx context.Context, id int64) error
	MarkAsFailed(ctx context.Context, id int64) error
	// Requeue flips a FAILED message back to PENDING.
	Requeue(ctx context.Context, id int64) error
}

// Store bundles the repositories behind one handle and provides the unit
// of work. WithinTransaction runs fn against a transaction-scoped Store:
// every mutation made through it commits atomically, or rolls back as a
// whole when fn returns an error.
type Store interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	Outbox() OutboxRepository
	WithinTransaction(ctx context.Context, fn func(Store) error) error
}
