package service

import (
	"context"
	"errors"
	"fmt"

	"bankcore/internal/model"
	"bankcore/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials covers both a wrong access code and an
	// unknown or non-Active account, so login failures do not reveal
	// which accounts exist.
	ErrInvalidCredentials = errors.New("invalid account number or access code")

	// ErrSessionExpired means the presented token no longer maps to a
	// session.
	ErrSessionExpired = errors.New("session expired")
)

// TokenStore persists session tokens. Satisfied by the Redis-backed
// session store.
type TokenStore interface {
	Put(ctx context.Context, token, accountNumber string) error
	Get(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}

// AuthService authenticates accounts by number + access code and manages
// session tokens. The token travels explicitly with every request; there
// is no ambient session state.
type AuthService struct {
	store  repository.Store
	tokens TokenStore
}

func NewAuthService(store repository.Store, tokens TokenStore) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Login verifies the access code for an Active account and mints a
// session token.
func (s *AuthService) Login(ctx context.Context, accountNumber, accessCode string) (string, *model.Account, error) {
	account, err := s.store.Accounts().GetActiveByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.VerifyAccessCode(account, accessCode); err != nil {
		return "", nil, err
	}

	token := uuid.NewString()
	if err := s.tokens.Put(ctx, token, account.AccountNumber); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}
	return token, account, nil
}

// Logout ends the session for the token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.tokens.Delete(ctx, token)
}

// Authenticate resolves a session token to the account number it was
// minted for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	accountNumber, err := s.tokens.Get(ctx, token)
	if err != nil {
		return "", ErrSessionExpired
	}
	return accountNumber, nil
}

// VerifyAccessCode compares the plain access code against the account's
// bcrypt hash. Withdrawals and transfers re-verify the code even on an
// authenticated session.
func (s *AuthService) VerifyAccessCode(account *model.Account, accessCode string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(account.AccessCodeHash), []byte(accessCode)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
