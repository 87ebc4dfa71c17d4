package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"minibank/internal/domain"
)

// TransactionService reads the ledger. Entries are written only by Transfer;
// nothing here mutates.
type TransactionService struct {
	transactions transactionRepo
}

func NewTransactionService(transactions transactionRepo) *TransactionService {
	return &TransactionService{transactions: transactions}
}

func (s *TransactionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	t, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return t, nil
}

func (s *TransactionService) GetAll(ctx context.Context) ([]domain.Transaction, error) {
	txns, err := s.transactions.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	return txns, nil
}

func (s *TransactionService) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	txns, err := s.transactions.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: %w", err)
	}
	return txns, nil
}
