package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		a, err := e.study.Analytics(cmd.Context())
		if err != nil {
			return fmt.Errorf("analytics: %w", err)
		}

		fmt.Printf("Sessions completed:  %d\n", a.CompletedSessions)
		fmt.Printf("Studied today:       %d min\n", a.MinutesToday)
		fmt.Printf("Reviews:             %d\n", a.TotalReviews)
		fmt.Printf("Accuracy:            %d%%\n", a.Accuracy)

		if len(a.Decks) > 0 {
			fmt.Println()
			fmt.Printf("%-32s  %6s  %5s\n", "Deck", "Cards", "Due")
			fmt.Println(strings.Repeat("─", 47))
			var total int
			for _, d := range a.Decks {
				fmt.Printf("%-32s  %6d  %5d\n", truncate(d.Title, 32), d.Cards, d.Due)
				total += d.Due
			}
			fmt.Println(strings.Repeat("─", 47))
			fmt.Printf("%-32s  %6s  %5d\n", "TOTAL", "", total)
		}
		return nil
	},
}
