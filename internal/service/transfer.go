package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"minibank/internal/domain"
	"minibank/internal/logging"
	"minibank/internal/rules"
)

// Transfer moves money between two accounts. The sender is debited the gross
// amount; the commission is withheld and the remainder is converted into the
// destination currency and credited. The debit, the credit and the ledger
// entry commit as one unit or not at all.
func (s *BankAccountService) Transfer(ctx context.Context, amount decimal.Decimal, fromID, toID uuid.UUID) (*domain.Transaction, error) {
	log := logging.FromContext(ctx)

	from, err := s.accounts.GetByID(ctx, fromID)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}
	to, err := s.accounts.GetByID(ctx, toID)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	commission, err := transferCommission(amount, from, to)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	// Conversion hits the exchange feed, so it runs before any row is
	// locked.
	incoming, err := s.converter.Convert(ctx, amount.Sub(commission), from.Currency, to.Currency)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("Transfer: begin tx: %w", err)
	}
	defer tx.Rollback()

	locked, err := lockAccountsInOrder(ctx, tx, s.accounts, fromID, toID)
	if err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}
	from, to = locked[fromID], locked[toID]

	// Re-run the rule set against the locked rows: balances or activity may
	// have changed since the unlocked reads.
	if err := rules.Transfer(amount, from, to).AsError(); err != nil {
		return nil, fmt.Errorf("Transfer: %w", err)
	}

	debit := amount.Round(2)
	credit := incoming.Round(2)

	txn := &domain.Transaction{
		ID:            uuid.New(),
		Amount:        debit,
		Currency:      from.Currency,
		FromAccountID: fromID,
		ToAccountID:   toID,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.transactions.Create(ctx, tx, txn); err != nil {
		return nil, fmt.Errorf("Transfer: create transaction: %w", err)
	}

	if err := s.accounts.UpdateBalance(ctx, tx, fromID, from.Balance.Sub(debit), from.Version+1); err != nil {
		return nil, fmt.Errorf("Transfer: debit: %w", err)
	}
	if err := s.accounts.UpdateBalance(ctx, tx, toID, to.Balance.Add(credit), to.Version+1); err != nil {
		return nil, fmt.Errorf("Transfer: credit: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("Transfer: commit: %w", err)
	}

	log.Info("transfer completed",
		"transaction_id", txn.ID,
		"from_account", fromID,
		"to_account", toID,
		"amount", amount,
		"currency", from.Currency,
		"commission", commission,
		"credited", credit,
	)
	return txn, nil
}

// lockAccountsInOrder locks the rows sorted by id so two concurrent transfers
// over the same pair cannot deadlock.
func lockAccountsInOrder(ctx context.Context, tx *sql.Tx, accounts accountRepo, ids ...uuid.UUID) (map[uuid.UUID]*domain.BankAccount, error) {
	sorted := make([]uuid.UUID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})

	result := make(map[uuid.UUID]*domain.BankAccount, len(ids))
	for _, id := range sorted {
		acct, err := accounts.GetForUpdate(ctx, tx, id)
		if err != nil {
			return nil, fmt.Errorf("lockAccountsInOrder: %w", err)
		}
		result[id] = acct
	}
	return result, nil
}
