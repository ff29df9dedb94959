package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/due"
	"github.com/abhisek/flashdeck/internal/flashcard"
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage cards",
}

var cardAddCmd = &cobra.Command{
	Use:   "add <deck-id>",
	Short: "Add a card to a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		c, err := e.decks.CreateCard(cmd.Context(), args[0], draftFromFlags(cmd, flashcard.Draft{}))
		if err != nil {
			return fmt.Errorf("add card: %w", err)
		}
		fmt.Printf("Added card %s\n", c.ID)
		return nil
	},
}

var cardListCmd = &cobra.Command{
	Use:   "list <deck-id>",
	Short: "List the cards of a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("page-size")
		cards, p, err := e.decks.ListCards(cmd.Context(), args[0], page, size)
		if err != nil {
			return fmt.Errorf("list cards: %w", err)
		}
		if len(cards) == 0 {
			fmt.Println("No cards in this deck.")
			return nil
		}
		printCards(cards)
		if p.TotalPages > 1 {
			fmt.Printf("\nPage %d of %d (%d cards)\n", p.Page, p.TotalPages, p.Total)
		}
		return nil
	},
}

var cardShowCmd = &cobra.Command{
	Use:   "show <card-id>",
	Short: "Show a card, its schedule and review history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		c, err := e.decks.GetCard(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get card: %w", err)
		}

		fmt.Printf("Question:  %s\n", c.Question)
		for i, o := range c.Options {
			mark := " "
			if i == c.CorrectIndex {
				mark = "*"
			}
			fmt.Printf("  %s %d. %s\n", mark, i+1, o)
		}
		fmt.Printf("Answer:    %s\n", c.Answer)
		fmt.Printf("Ease:      %.2f\n", c.Schedule.EaseFactor)
		fmt.Printf("Interval:  %d days\n", c.Schedule.Interval)
		fmt.Printf("Streak:    %d\n", c.Schedule.Repetitions)
		if c.Schedule.HasNextReview() {
			fmt.Printf("Next:      %s\n", c.Schedule.NextReview.Local().Format("2006-01-02"))
		}
		fmt.Printf("Reviews:   %d (%d%% correct)\n", c.ReviewCount, due.Accuracy(*c))

		history, err := e.store.ReviewRepo().ListByCard(ctx, e.cfg.User, c.ID, 10)
		if err != nil {
			return fmt.Errorf("review history: %w", err)
		}
		if len(history) > 0 {
			fmt.Println()
			fmt.Printf("%-16s  %7s  %11s  %9s\n", "Reviewed", "Quality", "Ease", "Interval")
			fmt.Println(strings.Repeat("─", 50))
			for _, r := range history {
				fmt.Printf("%-16s  %7d  %4.2f → %4.2f  %3d → %3d\n",
					r.ReviewedAt.Local().Format("2006-01-02 15:04"), r.Quality,
					r.EaseBefore, r.EaseAfter, r.IntervalBefore, r.IntervalAfter)
			}
		}
		return nil
	},
}

var cardEditCmd = &cobra.Command{
	Use:   "edit <card-id>",
	Short: "Edit a card's content; its schedule is kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		c, err := e.decks.GetCard(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get card: %w", err)
		}
		if _, err := e.decks.UpdateCard(ctx, c.ID, draftFromFlags(cmd, c.Draft())); err != nil {
			return fmt.Errorf("update card: %w", err)
		}
		fmt.Println("Card updated.")
		return nil
	},
}

var cardDeleteCmd = &cobra.Command{
	Use:   "delete <card-id>",
	Short: "Delete a card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.decks.DeleteCard(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete card: %w", err)
		}
		fmt.Println("Card deleted.")
		return nil
	},
}

// draftFromFlags overlays the flags that were set onto d. Passing options
// makes the card multiple choice.
func draftFromFlags(cmd *cobra.Command, d flashcard.Draft) flashcard.Draft {
	f := cmd.Flags()
	if f.Changed("question") {
		d.Question, _ = f.GetString("question")
	}
	if f.Changed("answer") {
		d.Answer, _ = f.GetString("answer")
	}
	if f.Changed("options") {
		d.Options, _ = f.GetStringSlice("options")
		d.Type = flashcard.TypeMCQ
		if !f.Changed("answer") {
			d.Answer = ""
		}
	}
	if f.Changed("correct") {
		n, _ := f.GetInt("correct")
		d.CorrectIndex = n - 1
	}
	return d
}

func init() {
	for _, c := range []*cobra.Command{cardAddCmd, cardEditCmd} {
		c.Flags().StringP("question", "q", "", "Question text")
		c.Flags().StringP("answer", "a", "", "Answer text")
		c.Flags().StringSlice("options", nil, "Comma-separated choices for a multiple-choice card")
		c.Flags().Int("correct", 1, "1-based number of the correct choice")
	}
	_ = cardAddCmd.MarkFlagRequired("question")

	cardListCmd.Flags().Int("page", 1, "Page number")
	cardListCmd.Flags().Int("page-size", 50, "Cards per page")

	cardCmd.AddCommand(cardAddCmd)
	cardCmd.AddCommand(cardListCmd)
	cardCmd.AddCommand(cardShowCmd)
	cardCmd.AddCommand(cardEditCmd)
	cardCmd.AddCommand(cardDeleteCmd)
}
