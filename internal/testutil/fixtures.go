package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"minibank/internal/domain"
)

func SeedUser(t *testing.T, db *sql.DB, login, email string) *domain.User {
	t.Helper()

	u := &domain.User{
		ID:        uuid.New(),
		Login:     login,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO users (id, login, email, created_at) VALUES ($1, $2, $3, $4)`,
		u.ID, u.Login, u.Email, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", login, err)
	}
	return u
}

func SeedAccount(t *testing.T, db *sql.DB, userID uuid.UUID, currency string, balance string) *domain.BankAccount {
	t.Helper()

	a := &domain.BankAccount{
		ID:       uuid.New(),
		UserID:   userID,
		Balance:  decimal.RequireFromString(balance),
		Currency: domain.Currency(currency),
		IsActive: true,
		Version:  1,
		OpenedAt: time.Now().UTC(),
	}

	_, err := db.Exec(
		`INSERT INTO accounts (id, user_id, balance, currency, is_active, version, opened_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.UserID, a.Balance, a.Currency, a.IsActive, a.Version, a.OpenedAt,
	)
	if err != nil {
		t.Fatalf("seed account %s/%s: %v", userID, currency, err)
	}
	return a
}

func CloseAccount(t *testing.T, db *sql.DB, accountID uuid.UUID) {
	t.Helper()

	_, err := db.Exec(
		`UPDATE accounts SET is_active = FALSE, balance = 0, closed_at = now() WHERE id = $1`,
		accountID,
	)
	if err != nil {
		t.Fatalf("close account %s: %v", accountID, err)
	}
}

func GetBalance(t *testing.T, db *sql.DB, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	var balance decimal.Decimal
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get balance %s: %v", accountID, err)
	}
	return balance
}

func CountTransactions(t *testing.T, db *sql.DB, accountID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM transactions WHERE from_account_id = $1 OR to_account_id = $1`,
		accountID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count transactions for %s: %v", accountID, err)
	}
	return count
}

func CountAccounts(t *testing.T, db *sql.DB, userID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM accounts WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		t.Fatalf("count accounts for %s: %v", userID, err)
	}
	return count
}
