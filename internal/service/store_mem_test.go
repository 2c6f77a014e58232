package service

import (
	"context"
	"sort"
	"strings"

	"bankcore/internal/model"
	"bankcore/internal/repository"
)

// memStore is an in-memory repository.Store for service tests. It keeps
// the same contract as the MySQL store where the services can observe
// it: copies out on read, unique account number and email, and
// WithinTransaction restoring the pre-call state when fn fails.
type memStore struct {
	accounts     map[int64]*model.Account
	transactions []*model.Transaction
	outbox       []*model.OutboxMessage
	nextID       int64
}

func newMemStore() *memStore {
	return &memStore{accounts: make(map[int64]*model.Account)}
}

func (s *memStore) Accounts() repository.AccountRepository         { return (*memAccounts)(s) }
func (s *memStore) Transactions() repository.TransactionRepository { return (*memTransactions)(s) }
func (s *memStore) Outbox() repository.OutboxRepository            { return (*memOutbox)(s) }

func (s *memStore) WithinTransaction(ctx context.Context, fn func(repository.Store) error) error {
	snapshot := s.clone()
	if err := fn(s); err != nil {
		*s = *snapshot
		return err
	}
	return nil
}

func (s *memStore) clone() *memStore {
	c := &memStore{
		accounts:     make(map[int64]*model.Account, len(s.accounts)),
		transactions: append([]*model.Transaction(nil), s.transactions...),
		outbox:       append([]*model.OutboxMessage(nil), s.outbox...),
		nextID:       s.nextID,
	}
	for id, a := range s.accounts {
		copied := *a
		c.accounts[id] = &copied
	}
	return c
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

// seedAccount inserts an account directly, bypassing registration.
func (s *memStore) seedAccount(a *model.Account) *model.Account {
	copied := *a
	copied.ID = s.id()
	s.accounts[copied.ID] = &copied
	result := copied
	return &result
}

type memAccounts memStore

func (r *memAccounts) Create(ctx context.Context, account *model.Account) error {
	for _, existing := range r.accounts {
		if existing.AccountNumber == account.AccountNumber {
			return repository.ErrDuplicateAccountNumber
		}
		if existing.Email == account.Email {
			return repository.ErrDuplicateEmail
		}
	}
	account.ID = (*memStore)(r).id()
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *memAccounts) GetByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	for _, a := range r.accounts {
		if a.AccountNumber == accountNumber {
			copied := *a
			return &copied, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (r *memAccounts) GetActiveByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	a, err := r.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AccountStatusActive {
		return nil, repository.ErrAccountNotFound
	}
	return a, nil
}

func (r *memAccounts) GetByNumberForUpdate(ctx context.Context, accountNumber string) (*model.Account, error) {
	return r.GetByNumber(ctx, accountNumber)
}

func (r *memAccounts) Update(ctx context.Context, account *model.Account) error {
	if _, ok := r.accounts[account.ID]; !ok {
		return repository.ErrAccountNotFound
	}
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *memAccounts) UpdateStatus(ctx context.Context, accountNumber, status string) error {
	for _, a := range r.accounts {
		if a.AccountNumber == accountNumber {
			a.Status = status
			return nil
		}
	}
	return repository.ErrAccountNotFound
}

func (r *memAccounts) NumberExists(ctx context.Context, accountNumber string) (bool, error) {
	for _, a := range r.accounts {
		if a.AccountNumber == accountNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAccounts) Search(ctx context.Context, query string) ([]*model.Account, error) {
	var result []*model.Account
	for _, a := range r.accounts {
		if query == "" ||
			strings.Contains(a.AccountNumber, query) ||
			strings.Contains(a.FirstName, query) ||
			strings.Contains(a.LastName, query) ||
			strings.Contains(a.Email, query) ||
			strings.Contains(a.Phone, query) {
			copied := *a
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

type memTransactions memStore

func (r *memTransactions) Create(ctx context.Context, transaction *model.Transaction) error {
	transaction.ID = (*memStore)(r).id()
	copied := *transaction
	r.transactions = append(r.transactions, &copied)
	return nil
}

func (r *memTransactions) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	for _, t := range r.transactions {
		if t.ID == id {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repository.ErrTransactionNotFound
}

func (r *memTransactions) ListByAccount(ctx context.Context, accountID int64, transactionType string, page, pageSize int) ([]*model.Transaction, int64, error) {
	var matched []*model.Transaction
	for _, t := range r.transactions {
		involved := (t.FromAccountID != nil && *t.FromAccountID == accountID) ||
			(t.ToAccountID != nil && *t.ToAccountID == accountID)
		if !involved {
			continue
		}
		if transactionType != "" && t.Type != transactionType {
			continue
		}
		copied := *t
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type memOutbox memStore

func (r *memOutbox) Create(ctx context.Context, msg *model.OutboxMessage) error {
	msg.ID = (*memStore)(r).id()
	copied := *msg
	r.outbox = append(r.outbox, &copied)
	return nil
}

func (r *memOutbox) GetPendingMessages(ctx context.Context, limit int) ([]*model.OutboxMessage, error) {
	return r.byStatus(model.OutboxStatusPending, limit), nil
}

func (r *memOutbox) GetFailedMessages(ctx context.Context, limit int) ([]*model.OutboxMessage, error) {
	return r.byStatus(model.OutboxStatusFailed, limit), nil
}

func (r *memOutbox) byStatus(status string, limit int) []*model.OutboxMessage {
	var result []*model.OutboxMessage
	for _, m := range r.outbox {
		if m.Status == status && len(result) < limit {
			copied := *m
			result = append(result, &copied)
		}
	}
	return result
}

func (r *memOutbox) UpdateStatus(ctx context.Context, id int64, status string) error {
	for _, m := range r.outbox {
		if m.ID == id {
			m.Status = status
			return nil
		}
	}
	return nil
}

func (r *memOutbox) IncrementRetryCount(ctx context.Context, id int64) error {
	for _, m := range r.outbox {
		if m.ID == id {
			m.RetryCount++
			return nil
		}
	}
	return nil
}

func (r *memOutbox) MarkAsFailed(ctx context.Context, id int64) error {
	for _, m := range r.outbox {
		if m.ID == id {
			m.Status = model.OutboxStatusFailed
			m.RetryCount++
			return nil
		}
	}
	return nil
}

func (r *memOutbox) Requeue(ctx context.Context, id int64) error {
	for _, m := range r.outbox {
		if m.ID == id && m.Status == model.OutboxStatusFailed {
			m.Status = model.OutboxStatusPending
			return nil
		}
	}
	return nil
}

var _ repository.Store = (*memStore)(nil)

// noopLock satisfies OperationLock for tests.
type noopLock struct{}

func (noopLock) Acquire(ctx context.Context, accountNumber string) (func(), error) {
	return func() {}, nil
}

// memTokens satisfies TokenStore for tests.
type memTokens map[string]string

func (m memTokens) Put(ctx context.Context, token, accountNumber string) error {
	m[token] = accountNumber
	return nil
}

func (m memTokens) Get(ctx context.Context, token string) (string, error) {
	accountNumber, ok := m[token]
	if !ok {
		return "", repository.ErrAccountNotFound
	}
	return accountNumber, nil
}

func (m memTokens) Delete(ctx context.Context, token string) error {
	delete(m, token)
	return nil
}
