package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"minibank/internal/domain"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage bank accounts",
}

var accountOpenCmd = &cobra.Command{
	Use:   "open <user-id> <currency>",
	Short: "Open an account for a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		account, err := a.accounts.Open(cmd.Context(), userID, domain.Currency(args[1]))
		if err != nil {
			return err
		}

		fmt.Printf("opened account %s (%s %s)\n", account.ID, account.Balance, account.Currency)
		return nil
	},
}

var accountCloseCmd = &cobra.Command{
	Use:   "close <account-id>",
	Short: "Close an account with zero balance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid account id: %w", err)
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.accounts.Close(cmd.Context(), id); err != nil {
			return err
		}

		fmt.Printf("closed account %s\n", id)
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		accounts, err := a.accounts.GetAll(cmd.Context())
		if err != nil {
			return err
		}

		for _, acct := range accounts {
			status := "active"
			if !acct.IsActive {
				status = "closed"
			}
			fmt.Printf("%s\t%s %s\t%s\towner %s\n",
				acct.ID, acct.Balance.StringFixed(2), acct.Currency, status, acct.UserID)
		}
		return nil
	},
}

var accountHistoryCmd = &cobra.Command{
	Use:   "history <account-id>",
	Short: "List the account's ledger entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid account id: %w", err)
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		txns, err := a.transactions.ListByAccount(cmd.Context(), id)
		if err != nil {
			return err
		}

		for _, t := range txns {
			fmt.Printf("%s\t%s %s\t%s -> %s\n",
				t.CreatedAt.Format("2006-01-02 15:04:05"),
				t.Amount.StringFixed(2), t.Currency,
				t.FromAccountID, t.ToAccountID)
		}
		return nil
	},
}

func init() {
	accountCmd.AddCommand(accountOpenCmd)
	accountCmd.AddCommand(accountCloseCmd)
	accountCmd.AddCommand(accountListCmd)
	accountCmd.AddCommand(accountHistoryCmd)
}
