package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <login> <email>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		user, err := a.users.Create(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("created user %s (%s)\n", user.ID, user.Login)
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		users, err := a.users.GetAll(cmd.Context())
		if err != nil {
			return err
		}

		for _, u := range users {
			fmt.Printf("%s\t%s\t%s\n", u.ID, u.Login, u.Email)
		}
		return nil
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user without active accounts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid user id: %w", err)
		}

		a, err := setup()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.users.Delete(cmd.Context(), id); err != nil {
			return err
		}

		fmt.Printf("deleted user %s\n", id)
		return nil
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userDeleteCmd)
}
