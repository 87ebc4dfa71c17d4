package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"minibank/internal/config"
	"minibank/internal/exchange"
	"minibank/internal/logging"
	"minibank/internal/repository"
	"minibank/internal/service"
)

var rootCmd = &cobra.Command{
	Use:          "minibank",
	Short:        "Manage minibank users, accounts and transfers",
	SilenceUsage: true,
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(commissionCmd)
	rootCmd.AddCommand(convertCmd)
}

type app struct {
	cfg          *config.Config
	db           *sql.DB
	users        *service.UserService
	accounts     *service.BankAccountService
	transactions *service.TransactionService
	converter    *exchange.Converter
}

// setup loads config, connects postgres and wires the services. Callers must
// Close the returned app.
func setup() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logging.Init("minibank", cfg.LogLevel, cfg.AppEnv)

	db, err := connectDB(cfg)
	if err != nil {
		return nil, err
	}

	users := repository.NewUserRepository(db)
	accounts := repository.NewAccountRepository(db)
	transactions := repository.NewTransactionRepository(db)

	feed := exchange.NewFeedClient(cfg.ExchangeURL, time.Duration(cfg.ExchangeTimeoutS)*time.Second)
	converter := exchange.NewConverter(feed)

	return &app{
		cfg:          cfg,
		db:           db,
		users:        service.NewUserService(users, accounts),
		accounts:     service.NewBankAccountService(accounts, users, transactions, converter, db),
		transactions: service.NewTransactionService(transactions),
		converter:    converter,
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Error("failed to close database", "error", err)
	}
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connectDB: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeS) * time.Second)
	db.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeS) * time.Second)

	for i := range 30 {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		slog.Info("waiting for database", "attempt", i+1)
		time.Sleep(time.Second)
	}

	db.Close()
	return nil, fmt.Errorf("connectDB: gave up after 30 attempts: %w", err)
}
