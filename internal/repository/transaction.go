package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"minibank/internal/domain"
)

const transactionColumns = `id, amount, currency, from_account_id, to_account_id, created_at`

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create appends a ledger entry inside the transfer's unit of work.
func (r *TransactionRepository) Create(ctx context.Context, tx *sql.Tx, txn *domain.Transaction) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO transactions (
			id, amount, currency, from_account_id, to_account_id, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		txn.ID, txn.Amount, txn.Currency,
		txn.FromAccountID, txn.ToAccountID, txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id,
	)
	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) GetAll(ctx context.Context) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListByAccount returns the entries referencing the account, outgoing and
// incoming alike, oldest first. This is the query projection behind the
// account's transaction history.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByAccount: %w", err)
	}
	defer rows.Close()
	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("collectTransactions: scan: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("collectTransactions: rows: %w", err)
	}
	return txns, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var t domain.Transaction
	err := s.Scan(
		&t.ID, &t.Amount, &t.Currency,
		&t.FromAccountID, &t.ToAccountID, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
