package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"minibank/internal/domain"
)

var transferCmd = &cobra.Command{
	Use:   "transfer <amount> <from-account-id> <to-account-id>",
	Short: "Transfer money between two accounts",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, fromID, toID, err := parseTransferArgs(args)
		if err != nil {
			return err
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		txn, err := a.accounts.Transfer(cmd.Context(), amount, fromID, toID)
		if err != nil {
			return err
		}

		fmt.Printf("transfer %s: %s %s from %s to %s\n",
			txn.ID, txn.Amount.StringFixed(2), txn.Currency, fromID, toID)
		return nil
	},
}

var commissionCmd = &cobra.Command{
	Use:   "commission <amount> <from-account-id> <to-account-id>",
	Short: "Quote the commission for a transfer",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, fromID, toID, err := parseTransferArgs(args)
		if err != nil {
			return err
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		commission, err := a.accounts.TransferCommission(cmd.Context(), amount, fromID, toID)
		if err != nil {
			return err
		}

		fmt.Printf("commission: %s\n", commission.StringFixed(2))
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <amount> <from-currency> <to-currency>",
	Short: "Convert an amount between currencies",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.converter.Convert(cmd.Context(), amount,
			domain.Currency(args[1]), domain.Currency(args[2]))
		if err != nil {
			return err
		}

		fmt.Printf("%s %s = %s %s\n", amount, args[1], result.StringFixed(2), args[2])
		return nil
	},
}

func parseTransferArgs(args []string) (decimal.Decimal, uuid.UUID, uuid.UUID, error) {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return decimal.Zero, uuid.Nil, uuid.Nil, fmt.Errorf("invalid amount: %w", err)
	}
	fromID, err := uuid.Parse(args[1])
	if err != nil {
		return decimal.Zero, uuid.Nil, uuid.Nil, fmt.Errorf("invalid source account id: %w", err)
	}
	toID, err := uuid.Parse(args[2])
	if err != nil {
		return decimal.Zero, uuid.Nil, uuid.Nil, fmt.Errorf("invalid destination account id: %w", err)
	}
	return amount, fromID, toID, nil
}
