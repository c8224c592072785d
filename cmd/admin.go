package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"geojournal/internal/auth"
)

var adminPassword string

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage editor accounts",
}

var adminSetPasswordCmd = &cobra.Command{
	Use:   "set-password <username>",
	Short: "Create an editor or replace its password",
	Long:  "Stores a bcrypt hash. The password is read from --password, GEOJOURNAL_PASSWORD, or stdin.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(adminPassword)
		if err != nil {
			return err
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return err
		}

		d, err := OpenDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.SetAdminPassword(cmd.Context(), args[0], hash); err != nil {
			return fmt.Errorf("storing password: %w", err)
		}
		fmt.Printf("[admin] password set for %s\n", args[0])
		return nil
	},
}

func init() {
	adminSetPasswordCmd.Flags().StringVar(&adminPassword, "password", "", "New password")
	adminCmd.AddCommand(adminSetPasswordCmd)
	rootCmd.AddCommand(adminCmd)
}
