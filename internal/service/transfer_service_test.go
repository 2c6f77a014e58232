package service

import (
	"context"
	"testing"

	"bankcore/internal/model"
	"bankcore/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransferFixture(t *testing.T) (*memStore, *TransferService, *model.Account, *model.Account) {
	t.Helper()
	store := newMemStore()
	a := seedActive(store, "199001011111", "100.00")
	b := seedActive(store, "198512312222", "50.00")
	return store, NewTransferService(store, noopLock{}, testTopic), a, b
}

func TestTransferMovesFundsAndRecordsOnce(t *testing.T) {
	store, svc, a, b := newTransferFixture(t)

	txn, err := svc.Transfer(context.Background(), a.AccountNumber, b.AccountNumber, money("30.00"), "")
	require.NoError(t, err)

	assert.True(t, balanceOf(t, store, a.AccountNumber).Equal(money("70.00")))
	assert.True(t, balanceOf(t, store, b.AccountNumber).Equal(money("80.00")))

	require.Len(t, store.transactions, 1, "exactly one record per transfer")
	assert.Equal(t, model.TransactionTypeTransfer, txn.Type)
	assert.Equal(t, model.TransactionStatusCompleted, txn.Status)
	assert.True(t, txn.Amount.Equal(money("30.00")))
	require.NotNil(t, txn.FromAccountID)
	require.NotNil(t, txn.ToAccountID)
	assert.Equal(t, a.ID, *txn.FromAccountID)
	assert.Equal(t, b.ID, *txn.ToAccountID)
	require.NotNil(t, txn.BalanceAfter)
	assert.True(t, txn.BalanceAfter.Equal(money("70.00")), "balance_after is the source's post-debit balance")

	require.Len(t, store.outbox, 1)
	assert.Contains(t, store.outbox[0].Payload, `"type":"Transfer"`)
}

func TestTransferSameAccountRejected(t *testing.T) {
	store, svc, a, _ := newTransferFixture(t)

	_, err := svc.Transfer(context.Background(), a.AccountNumber, a.AccountNumber, money("10.00"), "")

	require.ErrorIs(t, err, model.ErrSameAccount)
	assert.True(t, balanceOf(t, store, a.AccountNumber).Equal(money("100.00")))
	assert.Empty(t, store.transactions)
}

func TestTransferInsufficientBalance(t *testing.T) {
	store, svc, a, b := newTransferFixture(t)

	_, err := svc.Transfer(context.Background(), a.AccountNumber, b.AccountNumber, money("100.01"), "")

	require.ErrorIs(t, err, model.ErrInsufficientBalance)
	assert.True(t, balanceOf(t, store, a.AccountNumber).Equal(money("100.00")))
	assert.True(t, balanceOf(t, store, b.AccountNumber).Equal(money("50.00")))
	assert.Empty(t, store.transactions, "failed transfer must not leave a record")
	assert.Empty(t, store.outbox)
}

func TestTransferInactiveParticipant(t *testing.T) {
	tests := []struct {
		name     string
		inactive func(a, b *model.Account) string
	}{
		{"source inactive", func(a, b *model.Account) string { return a.AccountNumber }},
		{"destination inactive", func(a, b *model.Account) string { return b.AccountNumber }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc, a, b := newTransferFixture(t)
			require.NoError(t, store.Accounts().UpdateStatus(context.Background(), tt.inactive(a, b), model.AccountStatusInactive))

			_, err := svc.Transfer(context.Background(), a.AccountNumber, b.AccountNumber, money("30.00"), "")

			require.ErrorIs(t, err, model.ErrAccountNotActive)
			assert.True(t, balanceOf(t, store, a.AccountNumber).Equal(money("100.00")))
			assert.True(t, balanceOf(t, store, b.AccountNumber).Equal(money("50.00")))
			assert.Empty(t, store.transactions)
		})
	}
}

func TestTransferUnknownDestination(t *testing.T) {
	store, svc, a, _ := newTransferFixture(t)

	_, err := svc.Transfer(context.Background(), a.AccountNumber, "000000000000", money("30.00"), "")

	require.ErrorIs(t, err, repository.ErrAccountNotFound)
	assert.True(t, balanceOf(t, store, a.AccountNumber).Equal(money("100.00")))
	assert.Empty(t, store.transactions)
}

func TestTransferDefaultDescription(t *testing.T) {
	_, svc, a, b := newTransferFixture(t)

	txn, err := svc.Transfer(context.Background(), a.AccountNumber, b.AccountNumber, money("1.00"), "")
	require.NoError(t, err)
	assert.Equal(t, "Transfer to "+b.AccountNumber, txn.Description)
}

func TestLockOrderDeterministic(t *testing.T) {
	first, second := lockOrder("199001011111", "198512312222")
	assert.Equal(t, "198512312222", first)
	assert.Equal(t, "199001011111", second)

	// Same pair, opposite direction: identical order.
	first2, second2 := lockOrder("198512312222", "199001011111")
	assert.Equal(t, first, first2)
	assert.Equal(t, second, second2)
}
