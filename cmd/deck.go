package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/store"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage decks",
}

var deckCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		d, err := e.decks.CreateDeck(cmd.Context(), deckInputFromFlags(cmd, args[0]))
		if err != nil {
			return fmt.Errorf("create deck: %w", err)
		}
		fmt.Printf("Created deck %s (%s)\n", d.Title, d.ID)
		return nil
	},
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List decks",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		q := store.DeckQuery{}
		q.Search, _ = cmd.Flags().GetString("search")
		q.Tag, _ = cmd.Flags().GetString("tag")
		q.Category, _ = cmd.Flags().GetString("category")
		q.Page, _ = cmd.Flags().GetInt("page")
		q.PageSize, _ = cmd.Flags().GetInt("page-size")

		list, page, err := e.decks.ListDecks(cmd.Context(), q)
		if err != nil {
			return fmt.Errorf("list decks: %w", err)
		}
		if len(list) == 0 {
			fmt.Println("No decks found.")
			return nil
		}

		fmt.Printf("%-36s  %-32s  %5s  %s\n", "ID", "Title", "Cards", "Tags")
		fmt.Println(strings.Repeat("─", 90))
		for _, d := range list {
			fmt.Printf("%-36s  %-32s  %5d  %s\n", d.ID, truncate(d.Title, 32), d.CardCount, strings.Join(d.Tags, ","))
		}
		if page.TotalPages > 1 {
			fmt.Printf("\nPage %d of %d (%d decks)\n", page.Page, page.TotalPages, page.Total)
		}
		return nil
	},
}

var deckShowCmd = &cobra.Command{
	Use:   "show <deck-id>",
	Short: "Show a deck and its cards",
	Args:  cobra.ExactArgs(1),
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

		fmt.Printf("ID:        %s\n", d.ID)
		fmt.Printf("Title:     %s\n", d.Title)
		if d.Description != "" {
			fmt.Printf("About:     %s\n", d.Description)
		}
		if d.Category != "" {
			fmt.Printf("Category:  %s\n", d.Category)
		}
		if len(d.Tags) > 0 {
			fmt.Printf("Tags:      %s\n", strings.Join(d.Tags, ", "))
		}
		fmt.Printf("Cards:     %d\n", d.CardCount)
		fmt.Printf("Created:   %s\n", d.CreatedAt.Local().Format("2006-01-02 15:04"))

		cards, _, err := e.decks.ListCards(ctx, d.ID, 1, 100)
		if err != nil {
			return fmt.Errorf("list cards: %w", err)
		}
		if len(cards) > 0 {
			fmt.Println()
			printCards(cards)
		}
		return nil
	},
}

var deckEditCmd = &cobra.Command{
	Use:   "edit <deck-id>",
	Short: "Edit a deck",
	Args:  cobra.ExactArgs(1),
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

		in := flashcard.DeckInput{
			Title:       d.Title,
			Description: d.Description,
			Tags:        d.Tags,
			Category:    d.Category,
		}
		if cmd.Flags().Changed("title") {
			in.Title, _ = cmd.Flags().GetString("title")
		}
		if cmd.Flags().Changed("description") {
			in.Description, _ = cmd.Flags().GetString("description")
		}
		if cmd.Flags().Changed("category") {
			in.Category, _ = cmd.Flags().GetString("category")
		}
		if cmd.Flags().Changed("tags") {
			in.Tags, _ = cmd.Flags().GetStringSlice("tags")
		}

		d, err = e.decks.UpdateDeck(ctx, d.ID, in)
		if err != nil {
			return fmt.Errorf("update deck: %w", err)
		}
		fmt.Printf("Updated deck %s\n", d.Title)
		return nil
	},
}

var deckDeleteCmd = &cobra.Command{
	Use:   "delete <deck-id>",
	Short: "Delete a deck and all its cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.decks.DeleteDeck(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete deck: %w", err)
		}
		fmt.Println("Deck deleted.")
		return nil
	},
}

func deckInputFromFlags(cmd *cobra.Command, title string) flashcard.DeckInput {
	in := flashcard.DeckInput{Title: title}
	in.Description, _ = cmd.Flags().GetString("description")
	in.Category, _ = cmd.Flags().GetString("category")
	in.Tags, _ = cmd.Flags().GetStringSlice("tags")
	return in
}

func printCards(cards []flashcard.Card) {
	fmt.Printf("%-36s  %-4s  %-40s  %s\n", "ID", "Type", "Question", "Next review")
	fmt.Println(strings.Repeat("─", 100))
	for _, c := range cards {
		next := "new"
		if c.Schedule.HasNextReview() {
			next = c.Schedule.NextReview.Local().Format("2006-01-02")
		}
		kind := lo.Ternary(c.IsMCQ(), "mcq", "qa")
		fmt.Printf("%-36s  %-4s  %-40s  %s\n", c.ID, kind, truncate(c.Question, 40), next)
	}
}

func init() {
	for _, c := range []*cobra.Command{deckCreateCmd, deckEditCmd} {
		c.Flags().StringP("description", "d", "", "Deck description")
		c.Flags().StringP("category", "c", "", "Deck category")
		c.Flags().StringSlice("tags", nil, "Comma-separated tags")
	}
	deckEditCmd.Flags().StringP("title", "t", "", "New title")

	deckListCmd.Flags().StringP("search", "s", "", "Match title or description")
	deckListCmd.Flags().String("tag", "", "Only decks with this tag")
	deckListCmd.Flags().String("category", "", "Only decks in this category")
	deckListCmd.Flags().Int("page", 1, "Page number")
	deckListCmd.Flags().Int("page-size", 20, "Decks per page")

	deckCmd.AddCommand(deckCreateCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckShowCmd)
	deckCmd.AddCommand(deckEditCmd)
	deckCmd.AddCommand(deckDeleteCmd)
}
