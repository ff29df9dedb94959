package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/due"
)

var dueCmd = &cobra.Command{
	Use:   "due",
	Short: "List the cards due for review, most overdue first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		deckID, _ := cmd.Flags().GetString("deck")
		cards, err := e.study.DueCards(cmd.Context(), deckID)
		if err != nil {
			return fmt.Errorf("due cards: %w", err)
		}
		if len(cards) == 0 {
			fmt.Println("Nothing due. Come back later.")
			return nil
		}

		now := e.study.LocalNow()
		fmt.Printf("%-36s  %-44s  %s\n", "ID", "Question", "Overdue")
		fmt.Println(strings.Repeat("─", 94))
		for _, c := range cards {
			overdue := "new"
			if c.Schedule.HasNextReview() {
				overdue = fmt.Sprintf("%dd", -due.DaysUntilReview(c, now))
			}
			fmt.Printf("%-36s  %-44s  %s\n", c.ID, truncate(c.Question, 44), overdue)
		}
		fmt.Printf("\n%d cards due\n", len(cards))
		return nil
	},
}

func init() {
	dueCmd.Flags().String("deck", "", "Only cards of this deck")
}
