package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account types. The value sets below are part of the durable schema
// contract and must not be renamed.
const (
	AccountTypeSavings          = "Savings"
	AccountTypeCurrent          = "Current"
	AccountTypeFixedDeposit     = "Fixed Deposit"
	AccountTypeRecurringDeposit = "Recurring Deposit"
)

// Account statuses.
const (
	AccountStatusActive   = "Active"
	AccountStatusInactive = "Inactive"
	AccountStatusClosed   = "Closed"
)

// ValidAccountType reports whether t is one of the fixed account types.
func ValidAccountType(t string) bool {
	switch t {
	case AccountTypeSavings, AccountTypeCurrent, AccountTypeFixedDeposit, AccountTypeRecurringDeposit:
		return true
	}
	return false
}

// ValidAccountStatus reports whether s is one of the fixed statuses.
func ValidAccountStatus(s string) bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive, AccountStatusClosed:
		return true
	}
	return false
}

// Account is a customer bank account. AccountNumber is the business key:
// assigned once at first persistence, globally unique, never changed.
// Balance is DECIMAL(12,2) and must never go negative. Accounts are not
// physically deleted; closure is a status transition.
type Account struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountNumber  string          `gorm:"type:varchar(12);uniqueIndex;not null" json:"account_number"`
	AccountType    string          `gorm:"type:varchar(20);not null;default:Savings" json:"account_type"`
	Balance        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0.00" json:"balance"`
	Status         string          `gorm:"type:varchar(10);index;not null;default:Active" json:"status"`
	FirstName      string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string          `gorm:"type:varchar(100);not null" json:"last_name"`
	Email          string          `gorm:"type:varchar(254);uniqueIndex;not null" json:"email"`
	Phone          string          `gorm:"type:varchar(15)" json:"phone"`
	Address        string          `gorm:"type:text" json:"address"`
	DateOfBirth    time.Time       `gorm:"type:date;not null" json:"date_of_birth"`
	AccessCodeHash string          `gorm:"type:varchar(64);not null" json:"-"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "account"
}

// FullName returns the account holder's display name.
func (a *Account) FullName() string {
	return fmt.Sprintf("%s %s", a.FirstName, a.LastName)
}

// IsActive reports whether the account may take part in money movement.
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// CanWithdraw reports whether amount could be withdrawn right now:
// the account must be Active and hold at least amount. Pure check, no
// mutation.
func (a *Account) CanWithdraw(amount decimal.Decimal) bool {
	return a.IsActive() && a.Balance.GreaterThanOrEqual(amount)
}

// Deposit credits amount to the balance. Only Active accounts accept
// deposits; Inactive and Closed accounts reject them without mutation.
//
// Deposit performs no sign check on amount: positivity is the caller's
// input validation's responsibility, not the ledger's. Callers must not
// pass a non-positive amount.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !a.IsActive() {
		return ErrAccountNotActive
	}
	a.Balance = a.Balance.Add(amount)
	return nil
}

// Withdraw debits amount from the balance. It fails without mutation when
// the account is not Active or the balance is short. This check is the
// sole overdraft guard.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !a.IsActive() {
		return ErrAccountNotActive
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}
