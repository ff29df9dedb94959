package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/app"
)

var studyCmd = &cobra.Command{
	Use:   "study [deck-id]",
	Short: "Study due cards in the terminal UI",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := appStart{screen: app.StartReview}
		if len(args) == 1 {
			start.deckID = args[0]
		}
		return runApp(cmd, start)
	},
}

var testCmd = &cobra.Command{
	Use:   "test <deck-id>",
	Short: "Take a mock test on a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, appStart{screen: app.StartExam, deckID: args[0]})
	},
}

// appStart picks the first screen of the UI.
type appStart struct {
	screen app.StartScreen
	deckID string
}

// runApp builds the services and launches the terminal UI.
func runApp(cmd *cobra.Command, start appStart) error {
	e, err := openEnv(cmd, io.Discard)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.logToFile(); err != nil {
		return err
	}

	ctx := cmd.Context()
	opts := app.Options{
		Study:     e.study,
		Tests:     e.tests(cmd),
		Questions: e.cfg.Test.Questions,
		Start:     start.screen,
		DeckID:    start.deckID,
	}
	if n, _ := cmd.Flags().GetInt("questions"); n > 0 {
		opts.Questions = n
	}
	if start.deckID != "" {
		d, err := e.decks.GetDeck(ctx, start.deckID)
		if err != nil {
			return fmt.Errorf("get deck: %w", err)
		}
		opts.DeckTitle = d.Title
	}

	return app.Run(ctx, opts)
}

func init() {
	testCmd.Flags().IntP("questions", "n", 0, "Number of questions (default from config)")
}
