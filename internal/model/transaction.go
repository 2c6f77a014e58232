package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. Interest is part of the schema contract but no code
// path produces it.
const (
	TransactionTypeDeposit    = "Deposit"
	TransactionTypeWithdrawal = "Withdrawal"
	TransactionTypeTransfer   = "Transfer"
	TransactionTypeInterest   = "Interest"
)

// Transaction statuses. The ledger flows only ever produce Completed.
const (
	TransactionStatusPending   = "Pending"
	TransactionStatusCompleted = "Completed"
	TransactionStatusFailed    = "Failed"
)

// Transaction is the immutable audit record for one completed money
// movement: created once, never updated or deleted.
//
// Exactly one of FromAccountID/ToAccountID is set for Withdrawal/Deposit;
// both are set, and distinct, for Transfer. BalanceAfter holds the balance
// of the primary affected account (destination for Deposit, source for
// Withdrawal and Transfer) immediately after the operation.
//
// The account foreign keys are RESTRICT on delete so the audit trail
// outlives any attempt to remove an account row.
type Transaction struct {
	ID            int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	Type          string           `gorm:"type:varchar(20);index;not null" json:"type"`
	Amount        decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description   string           `gorm:"type:text" json:"description,omitempty"`
	Status        string           `gorm:"type:varchar(10);not null;default:Completed" json:"status"`
	FromAccountID *int64           `gorm:"index" json:"from_account_id,omitempty"`
	FromAccount   *Account         `gorm:"foreignKey:FromAccountID;constraint:OnDelete:RESTRICT" json:"-"`
	ToAccountID   *int64           `gorm:"index" json:"to_account_id,omitempty"`
	ToAccount     *Account         `gorm:"foreignKey:ToAccountID;constraint:OnDelete:RESTRICT" json:"-"`
	BalanceAfter  *decimal.Decimal `gorm:"type:decimal(12,2)" json:"balance_after,omitempty"`
	CreatedAt     time.Time        `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transaction"
}

// PrimaryAccountID returns the id of the account whose balance
// BalanceAfter refers to.
func (t *Transaction) PrimaryAccountID() *int64 {
	switch t.Type {
	case TransactionTypeDeposit:
		return t.ToAccountID
	case TransactionTypeWithdrawal, TransactionTypeTransfer:
		return t.FromAccountID
	}
	return nil
}
