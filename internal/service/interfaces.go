package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"minibank/internal/domain"
)

type userRepo interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetAll(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	IsUnique(ctx context.Context, login, email string, excludeID uuid.UUID) (bool, error)
}

type accountRepo interface {
	Create(ctx context.Context, account *domain.BankAccount) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error)
	GetAll(ctx context.Context) ([]domain.BankAccount, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.BankAccount, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error
	Update(ctx context.Context, account *domain.BankAccount) error
	Close(ctx context.Context, tx *sql.Tx, id uuid.UUID, closedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasActiveAccounts(ctx context.Context, userID uuid.UUID) (bool, error)
}

type transactionRepo interface {
	Create(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetAll(ctx context.Context) ([]domain.Transaction, error)
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

type currencyConverter interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to domain.Currency) (decimal.Decimal, error)
}
