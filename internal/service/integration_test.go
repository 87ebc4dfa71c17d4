package service_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minibank/internal/domain"
	"minibank/internal/exchange"
	"minibank/internal/repository"
	"minibank/internal/rules"
	"minibank/internal/service"
	"minibank/internal/testutil"
)

// staticRates replaces the exchange feed: RUB prices per unit.
type staticRates map[domain.Currency]string

func (s staticRates) Rate(_ context.Context, currency domain.Currency) (decimal.Decimal, error) {
	r, ok := s[currency]
	if !ok {
		return decimal.Zero, domain.ErrUnknownCurrency
	}
	return decimal.RequireFromString(r), nil
}

func (s staticRates) Knows(_ context.Context, currency domain.Currency) (bool, error) {
	_, ok := s[currency]
	return ok, nil
}

type testEnv struct {
	db           *sql.DB
	users        *service.UserService
	accounts     *service.BankAccountService
	transactions *service.TransactionService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	users := repository.NewUserRepository(db)
	accounts := repository.NewAccountRepository(db)
	transactions := repository.NewTransactionRepository(db)
	converter := exchange.NewConverter(staticRates{
		domain.CurrencyUSD: "90",
		domain.CurrencyEUR: "100",
	})

	return &testEnv{
		db:           db,
		users:        service.NewUserService(users, accounts),
		accounts:     service.NewBankAccountService(accounts, users, transactions, converter, db),
		transactions: service.NewTransactionService(transactions),
	}
}

func requireViolation(t *testing.T, err error, code rules.Code) {
	t.Helper()
	var v rules.Violations
	require.ErrorAs(t, err, &v)
	assert.True(t, v.Has(code), "missing violation %s in %v", code, v)
}

func TestTransfer_DifferentOwnersSameCurrency(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")
	bob := testutil.SeedUser(t, env.db, "bob", "bob@mail.ru")
	from := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "100")
	to := testutil.SeedAccount(t, env.db, bob.ID, "RUB", "100")

	txn, err := env.accounts.Transfer(ctx, decimal.RequireFromString("53"), from.ID, to.ID)
	require.NoError(t, err)

	// 2% commission on 53 is 1.06: sender loses the gross 53, recipient
	// gains the net 51.94.
	assert.True(t, testutil.GetBalance(t, env.db, from.ID).Equal(decimal.RequireFromString("46.94")))
	assert.True(t, testutil.GetBalance(t, env.db, to.ID).Equal(decimal.RequireFromString("153.94")))

	assert.Equal(t, 1, testutil.CountTransactions(t, env.db, from.ID))

	stored, err := env.transactions.GetByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("53")))
	assert.Equal(t, domain.CurrencyRUB, stored.Currency)
	assert.Equal(t, from.ID, stored.FromAccountID)
	assert.Equal(t, to.ID, stored.ToAccountID)
}

func TestTransfer_SameOwnerPaysNoCommission(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")
	from := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "100")
	to := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "100")

	_, err := env.accounts.Transfer(ctx, decimal.RequireFromString("50"), from.ID, to.ID)
	require.NoError(t, err)

	assert.True(t, testutil.GetBalance(t, env.db, from.ID).Equal(decimal.RequireFromString("50")))
	assert.True(t, testutil.GetBalance(t, env.db, to.ID).Equal(decimal.RequireFromString("150")))
}

func TestTransfer_LedgerAmountRounded(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")
	from := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "100")
	to := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "100")

	txn, err := env.accounts.Transfer(ctx, decimal.RequireFromString("10.005"), from.ID, to.ID)
	require.NoError(t, err)

	// The returned transaction carries the same rounded amount as the
	// persisted NUMERIC(19,2) row.
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("10.01")))
	stored, err := env.transactions.GetByID(ctx, txn.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(txn.Amount))

	assert.True(t, testutil.GetBalance(t, env.db, from.ID).Equal(decimal.RequireFromString("89.99")))
	assert.True(t, testutil.GetBalance(t, env.db, to.ID).Equal(decimal.RequireFromString("110.01")))
}

func TestTransfer_CrossCurrency(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")
	bob := testutil.SeedUser(t, env.db, "bob", "bob@mail.ru")
	from := testutil.SeedAccount(t, env.db, alice.ID, "USD", "100")
	to := testutil.SeedAccount(t, env.db, bob.ID, "EUR", "100")

	// 10 USD gross, 0.20 commission, 9.80 USD net -> 9.80 * 90 / 100 = 8.82 EUR.
	_, err := env.accounts.Transfer(ctx, decimal.RequireFromString("10"), from.ID, to.ID)
	require.NoError(t, err)

	assert.True(t, testutil.GetBalance(t, env.db, from.ID).Equal(decimal.RequireFromString("90")))
	assert.True(t, testutil.GetBalance(t, env.db, to.ID).Equal(decimal.RequireFromString("108.82")))
}

func TestTransfer_InactiveAccountsRejected(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")
	bob := testutil.SeedUser(t, env.db, "bob", "bob@mail.ru")

	t.Run("destination inactive", func(t *testing.T) {
		from := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "100")
		to := testutil.SeedAccount(t, env.db, bob.ID, "RUB", "100")
		testutil.CloseAccount(t, env.db, to.ID)

		_, err := env.accounts.Transfer(ctx, decimal.RequireFromString("10"), from.ID, to.ID)
		requireViolation(t, err, rules.ToAccountNotActive)

		assert.True(t, testutil.GetBalance(t, env.db, from.ID).Equal(decimal.RequireFromString("100")))
		assert.Equal(t, 0, testutil.CountTransactions(t, env.db, from.ID))
	})

	t.Run("source inactive", func(t *testing.T) {
		from := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "100")
		to := testutil.SeedAccount(t, env.db, bob.ID, "RUB", "100")
		testutil.CloseAccount(t, env.db, from.ID)

		_, err := env.accounts.Transfer(ctx, decimal.RequireFromString("10"), from.ID, to.ID)
		requireViolation(t, err, rules.FromAccountNotActive)

		assert.True(t, testutil.GetBalance(t, env.db, to.ID).Equal(decimal.RequireFromString("100")))
	})
}

func TestTransfer_InsufficientFunds(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")
	bob := testutil.SeedUser(t, env.db, "bob", "bob@mail.ru")
	from := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "30")
	to := testutil.SeedAccount(t, env.db, bob.ID, "RUB", "100")

	_, err := env.accounts.Transfer(ctx, decimal.RequireFromString("31"), from.ID, to.ID)
	requireViolation(t, err, rules.NotEnoughMoney)

	assert.True(t, testutil.GetBalance(t, env.db, from.ID).Equal(decimal.RequireFromString("30")))
	assert.True(t, testutil.GetBalance(t, env.db, to.ID).Equal(decimal.RequireFromString("100")))
	assert.Equal(t, 0, testutil.CountTransactions(t, env.db, from.ID))
}

func TestTransfer_MissingAccount(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")
	from := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "100")

	_, err := env.accounts.Transfer(ctx, decimal.RequireFromString("10"), from.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_ConcurrentOverdraftPrevented(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")
	bob := testutil.SeedUser(t, env.db, "bob", "bob@mail.ru")
	from := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "100")
	to := testutil.SeedAccount(t, env.db, bob.ID, "RUB", "0")

	// 70 + 70 > 100: row locking must let exactly one of the two through.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = env.accounts.Transfer(ctx, decimal.RequireFromString("70"), from.ID, to.ID)
		}()
	}
	wg.Wait()

	var failed int
	for _, err := range errs {
		if err != nil {
			failed++
			requireViolation(t, err, rules.NotEnoughMoney)
		}
	}
	require.Equal(t, 1, failed)

	assert.True(t, testutil.GetBalance(t, env.db, from.ID).Equal(decimal.RequireFromString("30")))
	assert.True(t, testutil.GetBalance(t, env.db, to.ID).Equal(decimal.RequireFromString("70")))
	assert.Equal(t, 1, testutil.CountTransactions(t, env.db, to.ID))
}

func TestTransferCommission_IsReadOnly(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")
	bob := testutil.SeedUser(t, env.db, "bob", "bob@mail.ru")
	from := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "100")
	to := testutil.SeedAccount(t, env.db, bob.ID, "RUB", "100")

	commission, err := env.accounts.TransferCommission(ctx, decimal.RequireFromString("53"), from.ID, to.ID)
	require.NoError(t, err)
	assert.True(t, commission.Equal(decimal.RequireFromString("1.06")), "got %s", commission)

	assert.True(t, testutil.GetBalance(t, env.db, from.ID).Equal(decimal.RequireFromString("100")))
	assert.True(t, testutil.GetBalance(t, env.db, to.ID).Equal(decimal.RequireFromString("100")))
	assert.Equal(t, 0, testutil.CountTransactions(t, env.db, from.ID))
}

func TestOpenAccount(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")

	t.Run("opens with the fixed starting balance", func(t *testing.T) {
		account, err := env.accounts.Open(ctx, alice.ID, domain.CurrencyEUR)
		require.NoError(t, err)

		assert.True(t, account.IsActive)
		assert.True(t, account.Balance.Equal(decimal.RequireFromString("100")))
		assert.True(t, testutil.GetBalance(t, env.db, account.ID).Equal(decimal.RequireFromString("100")))
	})

	t.Run("unsupported currency persists nothing", func(t *testing.T) {
		carol := testutil.SeedUser(t, env.db, "carol", "carol@mail.ru")

		_, err := env.accounts.Open(ctx, carol.ID, domain.Currency("GBP"))
		requireViolation(t, err, rules.InvalidCurrencyCode)
		assert.Equal(t, 0, testutil.CountAccounts(t, env.db, carol.ID))
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := env.accounts.Open(ctx, uuid.New(), domain.CurrencyRUB)
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCloseAccount(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	alice := testutil.SeedUser(t, env.db, "alice", "alice@mail.ru")

	t.Run("nonzero balance rejected", func(t *testing.T) {
		account := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "1")

		err := env.accounts.Close(ctx, account.ID)
		requireViolation(t, err, rules.NotEmptyBalance)
	})

	t.Run("empty active account closes", func(t *testing.T) {
		account := testutil.SeedAccount(t, env.db, alice.ID, "RUB", "0")

		require.NoError(t, env.accounts.Close(ctx, account.ID))

		var isActive bool
		var closedAt sql.NullTime
		err := env.db.QueryRow(
			`SELECT is_active, closed_at FROM accounts WHERE id = $1`, account.ID,
		).Scan(&isActive, &closedAt)
		require.NoError(t, err)
		assert.False(t, isActive)
		assert.True(t, closedAt.Valid)

		err = env.accounts.Close(ctx, account.ID)
		requireViolation(t, err, rules.AlreadyClosed)
	})

	t.Run("missing account", func(t *testing.T) {
		err := env.accounts.Close(ctx, uuid.New())
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserLifecycle(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user, err := env.users.Create(ctx, "ivan", "ivan@mail.ru")
	require.NoError(t, err)

	_, err = env.users.Create(ctx, "ivan", "other@mail.ru")
	require.ErrorIs(t, err, domain.ErrDuplicateUser)

	account, err := env.accounts.Open(ctx, user.ID, domain.CurrencyRUB)
	require.NoError(t, err)

	err = env.users.Delete(ctx, user.ID)
	require.ErrorIs(t, err, domain.ErrUserHasAccounts)

	testutil.CloseAccount(t, env.db, account.ID)
	require.NoError(t, env.accounts.Delete(ctx, account.ID))
	require.NoError(t, env.users.Delete(ctx, user.ID))

	_, err = env.users.GetByID(ctx, user.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
