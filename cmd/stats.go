package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print study statistics without opening the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildDeps()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		store.CheckAuth(ctx)

		if !store.Authenticated() {
			return fmt.Errorf("not signed in; run `aice` to log in first")
		}

		summary, err := client.Summary(ctx)
		if err != nil {
			return fmt.Errorf("fetch dashboard summary: %w", err)
		}

		accuracy := 0.0
		if summary.AccuracyRate != nil {
			accuracy = *summary.AccuracyRate
		}
		fmt.Printf("Questions answered: %d\n", summary.TotalQuestions)
		fmt.Printf("Correct:            %d (%.0f%%)\n", summary.TotalCorrect, accuracy)
		fmt.Printf("Sessions:           %d\n", summary.TotalSessions)
		fmt.Printf("Study time:         %dh %02dm\n",
			summary.TotalStudyTimeSeconds/3600, (summary.TotalStudyTimeSeconds%3600)/60)
		fmt.Printf("Current streak:     %d days\n", summary.CurrentStreak)
		fmt.Printf("Open mistakes:      %d\n", summary.MistakeCount)
		return nil
	},
}
