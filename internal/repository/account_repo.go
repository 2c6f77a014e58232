package repository

import (
	"context"
	"errors"
	"strings"

	"bankcore/internal/model"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	err := r.db.WithContext(ctx).Create(account).Error
	if err != nil {
		return translateDuplicate(err)
	}
	return nil
}

func (r *accountRepository) GetByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetActiveByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("account_number = ? AND status = ?", accountNumber, model.AccountStatusActive).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetByNumberForUpdate issues SELECT ... FOR UPDATE. On the root store
// gorm opens and immediately commits an implicit transaction, so the lock
// is only useful through a transaction-scoped store.
func (r *accountRepository) GetByNumberForUpdate(ctx context.Context, accountNumber string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_number = ?", accountNumber).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) Update(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *accountRepository) UpdateStatus(ctx context.Context, accountNumber, status string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("account_number = ?", accountNumber).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) NumberExists(ctx context.Context, accountNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("account_number = ?", accountNumber).
		Count(&count).Error
	return count > 0, err
}

func (r *accountRepository) Search(ctx context.Context, query string) ([]*model.Account, error) {
	var accounts []*model.Account
	q := r.db.WithContext(ctx).Model(&model.Account{})
	if query != "" {
		pattern := "%" + query + "%"
		q = q.Where(
			"account_number LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}
	err := q.Order("created_at DESC").Find(&accounts).Error
	return accounts, err
}

// translateDuplicate maps MySQL duplicate-entry violations (error 1062)
// onto the sentinel for the index that fired.
func translateDuplicate(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		msg := mysqlErr.Message
		switch {
		case strings.Contains(msg, "account_number"):
			return ErrDuplicateAccountNumber
		case strings.Contains(msg, "email"):
			return ErrDuplicateEmail
		}
	}
	return err
}
