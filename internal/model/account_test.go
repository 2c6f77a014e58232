package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeAccount(balance string) *Account {
	return &Account{
		AccountNumber: "199001011234",
		Status:        AccountStatusActive,
		Balance:       decimal.RequireFromString(balance),
		FirstName:     "John",
		LastName:      "Doe",
	}
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	a := activeAccount("100.00")

	require.NoError(t, a.Deposit(decimal.RequireFromString("42.50")))
	require.NoError(t, a.Withdraw(decimal.RequireFromString("42.50")))

	assert.True(t, a.Balance.Equal(decimal.RequireFromString("100.00")),
		"round trip should restore the balance, got %s", a.Balance)
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	a := activeAccount("100.00")

	err := a.Withdraw(decimal.RequireFromString("150.00"))

	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, a.Balance.Equal(decimal.RequireFromString("100.00")),
		"failed withdrawal must not change the balance")
}

func TestWithdrawExactBalance(t *testing.T) {
	a := activeAccount("100.00")

	require.NoError(t, a.Withdraw(decimal.RequireFromString("100.00")))
	assert.True(t, a.Balance.IsZero())
}

func TestMoneyMovementRequiresActive(t *testing.T) {
	for _, status := range []string{AccountStatusInactive, AccountStatusClosed} {
		t.Run(status, func(t *testing.T) {
			a := activeAccount("100.00")
			a.Status = status

			assert.ErrorIs(t, a.Deposit(decimal.RequireFromString("10.00")), ErrAccountNotActive)
			assert.ErrorIs(t, a.Withdraw(decimal.RequireFromString("10.00")), ErrAccountNotActive)
			assert.True(t, a.Balance.Equal(decimal.RequireFromString("100.00")))
		})
	}
}

func TestCanWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		balance string
		amount  string
		want    bool
	}{
		{"covered", AccountStatusActive, "100.00", "50.00", true},
		{"exact", AccountStatusActive, "100.00", "100.00", true},
		{"short", AccountStatusActive, "100.00", "100.01", false},
		{"inactive", AccountStatusInactive, "100.00", "50.00", false},
		{"closed", AccountStatusClosed, "100.00", "50.00", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := activeAccount(tt.balance)
			a.Status = tt.status
			assert.Equal(t, tt.want, a.CanWithdraw(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestValidAccountType(t *testing.T) {
	for _, valid := range []string{"Savings", "Current", "Fixed Deposit", "Recurring Deposit"} {
		assert.True(t, ValidAccountType(valid), valid)
	}
	assert.False(t, ValidAccountType("Checking"))
	assert.False(t, ValidAccountType(""))
}

func TestValidAccountStatus(t *testing.T) {
	for _, valid := range []string{"Active", "Inactive", "Closed"} {
		assert.True(t, ValidAccountStatus(valid), valid)
	}
	assert.False(t, ValidAccountStatus("Frozen"))
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "John Doe", activeAccount("0").FullName())
}

func TestTransactionPrimaryAccountID(t *testing.T) {
	from, to := int64(1), int64(2)

	deposit := &Transaction{Type: TransactionTypeDeposit, ToAccountID: &to}
	require.NotNil(t, deposit.PrimaryAccountID())
	assert.Equal(t, to, *deposit.PrimaryAccountID())

	withdrawal := &Transaction{Type: TransactionTypeWithdrawal, FromAccountID: &from}
	require.NotNil(t, withdrawal.PrimaryAccountID())
	assert.Equal(t, from, *withdrawal.PrimaryAccountID())

	transfer := &Transaction{Type: TransactionTypeTransfer, FromAccountID: &from, ToAccountID: &to}
	require.NotNil(t, transfer.PrimaryAccountID())
	assert.Equal(t, from, *transfer.PrimaryAccountID(), "transfer balance_after refers to the source")

	assert.Nil(t, (&Transaction{Type: TransactionTypeInterest}).PrimaryAccountID())
}
