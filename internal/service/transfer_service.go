package service

import (
	"context"
	"fmt"

	"bankcore/internal/model"
	"bankcore/internal/repository"

	"github.com/shopspring/decimal"
)

// OperationLock serializes one customer's money operations ahead of the
// database transaction. Acquire blocks until the lock is held and returns
// the release func.
type OperationLock interface {
	Acquire(ctx context.Context, accountNumber string) (release func(), err error)
}

// TransferService atomically moves funds between two distinct accounts
// and produces exactly one Transfer record. Either debit, credit and
// record all become durable together, or none of them do.
type TransferService struct {
	store repository.Store
	locks OperationLock
	topic string
}

func NewTransferService(store repository.Store, locks OperationLock, topic string) *TransferService {
	return &TransferService{store: store, locks: locks, topic: topic}
}

// Transfer moves amount from one account number to another.
//
// Both rows are locked in ascending account-number order, so two opposite
// transfers between the same pair cannot deadlock. Activity and balance
// are re-validated under the lock even when the caller already checked:
// the balance may have changed between the caller's check and lock
// acquisition.
func (s *TransferService) Transfer(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if fromNumber == toNumber {
		return nil, model.ErrSameAccount
	}
	if description == "" {
		description = fmt.Sprintf("Transfer to %s", toNumber)
	}

	release, err := s.locks.Acquire(ctx, fromNumber)
	if err != nil {
		return nil, fmt.Errorf("acquire transfer lock: %w", err)
	}
	defer release()

	var txn *model.Transaction
	err = s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		first, second := lockOrder(fromNumber, toNumber)
		locked := make(map[string]*model.Account, 2)
		for _, number := range []string{first, second} {
			account, err := tx.Accounts().GetByNumberForUpdate(ctx, number)
			if err != nil {
				return err
			}
			locked[number] = account
		}
		source, destination := locked[fromNumber], locked[toNumber]

		if !source.IsActive() || !destination.IsActive() {
			return model.ErrAccountNotActive
		}
		if err := source.Withdraw(amount); err != nil {
			return err
		}
		if err := destination.Deposit(amount); err != nil {
			return err
		}

		if err := tx.Accounts().Update(ctx, source); err != nil {
			return fmt.Errorf("persist source balance: %w", err)
		}
		if err := tx.Accounts().Update(ctx, destination); err != nil {
			return fmt.Errorf("persist destination balance: %w", err)
		}

		balanceAfter := source.Balance
		txn = &model.Transaction{
			Type:          model.TransactionTypeTransfer,
			Amount:        amount,
			Description:   description,
			FromAccountID: &source.ID,
			ToAccountID:   &destination.ID,
			BalanceAfter:  &balanceAfter,
		}
		return record(ctx, tx, s.topic, txn, source, destination)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// lockOrder ranks two account numbers so every transfer locks rows in the
// same order.
func lockOrder(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
