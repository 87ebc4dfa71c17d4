package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"minibank/internal/domain"
)

const accountColumns = `id, user_id, balance, currency, is_active, version, opened_at, closed_at`

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.BankAccount) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (
			id, user_id, balance, currency, is_active, version, opened_at, closed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		account.ID, account.UserID, account.Balance, account.Currency,
		account.IsActive, account.Version, account.OpenedAt, account.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetAll(ctx context.Context) ([]domain.BankAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY opened_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("GetAll: scan: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetAll: rows: %w", err)
	}
	return accounts, nil
}

// GetForUpdate locks the account row for the duration of the tx. Callers
// must lock accounts in a deterministic order to avoid deadlock.
func (r *AccountRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*domain.BankAccount, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id,
	)
	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, newBalance decimal.Decimal, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, version = $2 WHERE id = $3 AND version = $4`,
		newBalance, newVersion, id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateBalance: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("UpdateBalance: %w", domain.ErrVersionConflict)
	}
	return nil
}

// Update rewrites the mutable account fields, guarded by the version the
// caller read.
func (r *AccountRepository) Update(ctx context.Context, account *domain.BankAccount) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET balance = $1, is_active = $2, version = $3
		WHERE id = $4 AND version = $5`,
		account.Balance, account.IsActive, account.Version+1,
		account.ID, account.Version,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Update: %w", domain.ErrVersionConflict)
	}
	return nil
}

// Close marks the account inactive and records the closing timestamp.
func (r *AccountRepository) Close(ctx context.Context, tx *sql.Tx, id uuid.UUID, closedAt time.Time) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET is_active = FALSE, closed_at = $1 WHERE id = $2`,
		closedAt, id,
	)
	if err != nil {
		return fmt.Errorf("Close: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Close: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Close: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes the account row. Administrative cleanup only; normal flow
// closes accounts instead.
func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *AccountRepository) HasActiveAccounts(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM accounts WHERE user_id = $1 AND is_active)`,
		userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("HasActiveAccounts: %w", err)
	}
	return exists, nil
}

func scanAccount(s scanner) (*domain.BankAccount, error) {
	var a domain.BankAccount
	err := s.Scan(
		&a.ID, &a.UserID, &a.Balance, &a.Currency,
		&a.IsActive, &a.Version, &a.OpenedAt, &a.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
