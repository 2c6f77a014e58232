package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bankcore/internal/model"
	"bankcore/internal/repository"
	"bankcore/pkg/accnum"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidStatus rejects administrative status updates outside the
// fixed value set.
var ErrInvalidStatus = errors.New("invalid account status")

// createRetries bounds how often registration retries after losing the
// unique-index race on a freshly generated account number.
const createRetries = 3

// AccountService handles registration and account administration.
type AccountService struct {
	store repository.Store
}

func NewAccountService(store repository.Store) *AccountService {
	return &AccountService{store: store}
}

// RegisterInput carries the already bound-and-validated registration
// fields. AccessCode arrives as the plain 4-digit string and is stored
// only as a bcrypt hash.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	DateOfBirth time.Time
	AccountType string
	AccessCode  string
}

// Register creates an account with a fresh unique account number, zero
// balance and Active status. The account number is generated from the
// date of birth and owned by the account forever after.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*model.Account, error) {
	if !model.ValidAccountType(in.AccountType) {
		return nil, fmt.Errorf("unknown account type %q", in.AccountType)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.AccessCode), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash access code: %w", err)
	}

	gen := accnum.NewGenerator(func(number string) (bool, error) {
		return s.store.Accounts().NumberExists(ctx, number)
	})

	// The exists check and the insert are not atomic: a concurrent
	// registration can claim the number in between. The unique index is
	// the arbiter; on conflict, regenerate and try again.
	for attempt := 0; attempt < createRetries; attempt++ {
		number, err := gen.Generate(in.DateOfBirth)
		if err != nil {
			return nil, err
		}

		account := &model.Account{
			AccountNumber:  number,
			AccountType:    in.AccountType,
			Status:         model.AccountStatusActive,
			FirstName:      in.FirstName,
			LastName:       in.LastName,
			Email:          in.Email,
			Phone:          in.Phone,
			Address:        in.Address,
			DateOfBirth:    in.DateOfBirth,
			AccessCodeHash: string(hash),
		}
		err = s.store.Accounts().Create(ctx, account)
		if err == nil {
			return account, nil
		}
		if errors.Is(err, repository.ErrDuplicateAccountNumber) {
			continue
		}
		return nil, err
	}
	return nil, repository.ErrDuplicateAccountNumber
}

// GetByNumber resolves an account by its business key regardless of
// status.
func (s *AccountService) GetByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	return s.store.Accounts().GetByNumber(ctx, accountNumber)
}

// Search lists accounts matching the query over number, name, email and
// phone. Empty query lists all, newest first.
func (s *AccountService) Search(ctx context.Context, query string) ([]*model.Account, error) {
	return s.store.Accounts().Search(ctx, query)
}

// UpdateStatus performs the administrative Active/Inactive/Closed
// transition. It sits outside the ledger flows; closed accounts keep
// their rows and their transaction history.
func (s *AccountService) UpdateStatus(ctx context.Context, accountNumber, status string) error {
	if !model.ValidAccountStatus(status) {
		return ErrInvalidStatus
	}
	return s.store.Accounts().UpdateStatus(ctx, accountNumber, status)
}
