package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the currently signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := buildDeps()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()
		store.CheckAuth(ctx)

		u := store.User()
		if u == nil {
			fmt.Println("Not signed in. Run `aice` to log in.")
			return nil
		}
		fmt.Printf("%s <%s>\n", u.Name, u.Email)
		return nil
	},
}
