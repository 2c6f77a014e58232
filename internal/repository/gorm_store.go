package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormStore implements Store on a gorm database handle. The same type
// backs both the root store and transaction-scoped stores: within a unit
// of work db is the *gorm.DB bound to the open transaction.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Accounts() AccountRepository {
	return &accountRepository{db: s.db}
}

func (s *GormStore) Transactions() TransactionRepository {
	return &transactionRepository{db: s.db}
}

func (s *GormStore) Outbox() OutboxRepository {
	return &outboxRepository{db: s.db}
}

// WithinTransaction maps the unit of work onto a database transaction.
// Row locks taken through the inner store are held until commit/rollback.
func (s *GormStore) WithinTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

var _ Store = (*GormStore)(nil)
