package service

import (
	"context"
	"fmt"

	"bankcore/internal/model"
	"bankcore/internal/repository"

	"github.com/shopspring/decimal"
)

// LedgerService owns single-account money movement: deposits, withdrawals
// and the transaction history. Both mutations run as a locked unit of
// work so two concurrent requests against the same account serialize on
// the row instead of racing read-modify-write.
//
// Amount positivity is NOT checked here. The ledger trusts its caller:
// the request binding layer rejects non-positive amounts before any
// service call.
type LedgerService struct {
	store repository.Store
	topic string
}

func NewLedgerService(store repository.Store, topic string) *LedgerService {
	return &LedgerService{store: store, topic: topic}
}

// Deposit credits amount to the account and records one Completed Deposit
// transaction carrying the post-credit balance. It fails without side
// effects when the account is missing or not Active.
func (s *LedgerService) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if description == "" {
		description = "Deposit"
	}

	var txn *model.Transaction
	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		account, err := tx.Accounts().GetByNumberForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}
		if err := account.Deposit(amount); err != nil {
			return err
		}
		if err := tx.Accounts().Update(ctx, account); err != nil {
			return fmt.Errorf("persist balance: %w", err)
		}

		balanceAfter := account.Balance
		txn = &model.Transaction{
			Type:         model.TransactionTypeDeposit,
			Amount:       amount,
			Description:  description,
			ToAccountID:  &account.ID,
			BalanceAfter: &balanceAfter,
		}
		return record(ctx, tx, s.topic, txn, nil, account)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// Withdraw debits amount from the account and records one Completed
// Withdrawal transaction carrying the post-debit balance. The in-lock
// balance check is the sole overdraft guard; on failure nothing is
// mutated and no record is created.
func (s *LedgerService) Withdraw(ctx context.Context, accountNumber string, amount decimal.Decimal, description string) (*model.Transaction, error) {
	if description == "" {
		description = "Withdrawal"
	}

	var txn *model.Transaction
	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		account, err := tx.Accounts().GetByNumberForUpdate(ctx, accountNumber)
		if err != nil {
			return err
		}
		if err := account.Withdraw(amount); err != nil {
			return err
		}
		if err := tx.Accounts().Update(ctx, account); err != nil {
			return fmt.Errorf("persist balance: %w", err)
		}

		balanceAfter := account.Balance
		txn = &model.Transaction{
			Type:          model.TransactionTypeWithdrawal,
			Amount:        amount,
			Description:   description,
			FromAccountID: &account.ID,
			BalanceAfter:  &balanceAfter,
		}
		return record(ctx, tx, s.topic, txn, account, nil)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// History lists the account's transactions, newest first, on either side
// of the movement. transactionType narrows to one type when non-empty.
func (s *LedgerService) History(ctx context.Context, accountNumber, transactionType string, page, pageSize int) ([]*model.Transaction, int64, error) {
	account, err := s.store.Accounts().GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return s.store.Transactions().ListByAccount(ctx, account.ID, transactionType, page, pageSize)
}
