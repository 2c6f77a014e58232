package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"bankcore/internal/model"
	"bankcore/internal/repository"
)

// transactionEvent is the payload published for every completed money
// movement.
type transactionEvent struct {
	TransactionID     int64  `json:"transaction_id"`
	Type              string `json:"type"`
	Amount            string `json:"amount"`
	FromAccountNumber string `json:"from_account_number,omitempty"`
	ToAccountNumber   string `json:"to_account_number,omitempty"`
	BalanceAfter      string `json:"balance_after"`
	CompletedAt       string `json:"completed_at"`
}

// record is the transaction recorder: it persists the immutable Completed
// audit record and enqueues its outbox event inside the caller's unit of
// work. It runs only after the ledger mutation succeeded and never decides
// success itself; txn must arrive fully populated apart from Status.
func record(ctx context.Context, store repository.Store, topic string, txn *model.Transaction, from, to *model.Account) error {
	txn.Status = model.TransactionStatusCompleted
	if err := store.Transactions().Create(ctx, txn); err != nil {
		return fmt.Errorf("create transaction record: %w", err)
	}

	event := transactionEvent{
		TransactionID: txn.ID,
		Type:          txn.Type,
		Amount:        txn.Amount.StringFixed(2),
		CompletedAt:   time.Now().Format(time.RFC3339),
	}
	if from != nil {
		event.FromAccountNumber = from.AccountNumber
	}
	if to != nil {
		event.ToAccountNumber = to.AccountNumber
	}
	if txn.BalanceAfter != nil {
		event.BalanceAfter = txn.BalanceAfter.StringFixed(2)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal transaction event: %w", err)
	}

	msg := &model.OutboxMessage{
		MessageKey: strconv.FormatInt(txn.ID, 10),
		Topic:      topic,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}
	if err := store.Outbox().Create(ctx, msg); err != nil {
		return fmt.Errorf("enqueue transaction event: %w", err)
	}
	return nil
}
