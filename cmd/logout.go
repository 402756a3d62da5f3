package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the saved session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := buildDeps()
		if err != nil {
			return err
		}
		store.Logout()
		fmt.Println("Logged out.")
		return nil
	},
}
