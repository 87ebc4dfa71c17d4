package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"minibank/internal/domain"
	"minibank/internal/logging"
	"minibank/internal/rules"
)

// commissionRate is charged on transfers between accounts of different
// owners, as a fraction of the gross amount.
var commissionRate = decimal.NewFromFloat(0.02)

type BankAccountService struct {
	accounts     accountRepo
	users        userRepo
	transactions transactionRepo
	converter    currencyConverter
	db           *sql.DB
}

func NewBankAccountService(
	accounts accountRepo,
	users userRepo,
	transactions transactionRepo,
	converter currencyConverter,
	db *sql.DB,
) *BankAccountService {
	return &BankAccountService{
		accounts:     accounts,
		users:        users,
		transactions: transactions,
		converter:    converter,
		db:           db,
	}
}

// Open creates an active account for the owner with the fixed opening
// balance.
func (s *BankAccountService) Open(ctx context.Context, userID uuid.UUID, currency domain.Currency) (*domain.BankAccount, error) {
	log := logging.FromContext(ctx)

	if err := rules.AccountForOpen(currency).AsError(); err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("Open: owner: %w", err)
	}

	account := &domain.BankAccount{
		ID:       uuid.New(),
		UserID:   userID,
		Balance:  domain.OpeningBalance,
		Currency: currency,
		IsActive: true,
		Version:  1,
		OpenedAt: time.Now().UTC(),
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("Open: %w", err)
	}

	log.Info("account opened",
		"account_id", account.ID,
		"user_id", userID,
		"currency", currency,
	)
	return account, nil
}

// Close marks the account inactive. The balance must already be zero; the
// rule set runs against the locked row so a concurrent transfer cannot slip
// money in between the check and the update.
func (s *BankAccountService) Close(ctx context.Context, id uuid.UUID) error {
	log := logging.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("Close: begin tx: %w", err)
	}
	defer tx.Rollback()

	account, err := s.accounts.GetForUpdate(ctx, tx, id)
	if err != nil {
		return fmt.Errorf("Close: %w", err)
	}

	if err := rules.AccountForClose(account).AsError(); err != nil {
		return fmt.Errorf("Close: %w", err)
	}

	if err := s.accounts.Close(ctx, tx, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("Close: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Close: commit: %w", err)
	}

	log.Info("account closed", "account_id", id)
	return nil
}

// TransferCommission quotes the commission for a candidate transfer without
// persisting anything.
func (s *BankAccountService) TransferCommission(ctx context.Context, amount decimal.Decimal, fromID, toID uuid.UUID) (decimal.Decimal, error) {
	from, err := s.accounts.GetByID(ctx, fromID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("TransferCommission: %w", err)
	}
	to, err := s.accounts.GetByID(ctx, toID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("TransferCommission: %w", err)
	}

	commission, err := transferCommission(amount, from, to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("TransferCommission: %w", err)
	}
	return commission, nil
}

// transferCommission validates the candidate transfer and prices it: zero
// between accounts of one owner, otherwise 2% of the gross amount rounded to
// two places.
func transferCommission(amount decimal.Decimal, from, to *domain.BankAccount) (decimal.Decimal, error) {
	if err := rules.Transfer(amount, from, to).AsError(); err != nil {
		return decimal.Zero, err
	}

	if from.UserID == to.UserID {
		return decimal.Zero, nil
	}
	return amount.Mul(commissionRate).Round(2), nil
}

func (s *BankAccountService) Update(ctx context.Context, account *domain.BankAccount) error {
	if err := s.accounts.Update(ctx, account); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	return nil
}

// Delete hard-removes the account. Administrative cleanup only.
func (s *BankAccountService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.accounts.Delete(ctx, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (s *BankAccountService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return account, nil
}

func (s *BankAccountService) GetAll(ctx context.Context) ([]domain.BankAccount, error) {
	accounts, err := s.accounts.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	return accounts, nil
}
