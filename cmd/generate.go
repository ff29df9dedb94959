package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/cardgen"
	"github.com/abhisek/flashdeck/internal/flashcard"
)

var generateCmd = &cobra.Command{
	Use:   "generate <deck-id> <topic>",
	Short: "Generate cards about a topic with the configured LLM",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		d, err := e.decks.GetDeck(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get deck: %w", err)
		}

		gen := e.generator(cmd)
		if gen == nil {
			return errors.New("no LLM provider configured; set llm.provider or an API key such as ANTHROPIC_API_KEY")
		}

		existing, _, err := e.decks.ListCards(ctx, d.ID, 1, 500)
		if err != nil {
			return fmt.Errorf("list cards: %w", err)
		}
		questions := lo.Map(existing, func(c flashcard.Card, _ int) string { return c.Question })

		count, _ := cmd.Flags().GetInt("count")
		fmt.Printf("Generating %d cards about %q...\n", count, args[1])
		drafts, err := gen.Generate(ctx, args[1], count, questions...)
		if err != nil {
			if errors.Is(err, cardgen.ErrNoCards) {
				return fmt.Errorf("the model returned no usable cards for %q", args[1])
			}
			return fmt.Errorf("generate cards: %w", err)
		}

		created, rejected, err := e.decks.ImportCards(ctx, d.ID, drafts)
		if err != nil {
			return fmt.Errorf("save cards: %w", err)
		}
		printCards(created)
		fmt.Printf("\nAdded %d cards to %s", len(created), d.Title)
		if rejected > 0 {
			fmt.Printf(" (%d rejected)", rejected)
		}
		fmt.Println(".")
		return nil
	},
}

func init() {
	generateCmd.Flags().IntP("count", "n", 5, "Number of cards to generate")
}
