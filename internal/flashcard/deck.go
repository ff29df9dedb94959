package flashcard

import (
	"strings"
	"time"
)

// Deck groups a user's cards.
type Deck struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Tags        []string
	Category    string
	CardCount   int
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeckInput holds the user-editable fields of a deck.
type DeckInput struct {
	Title       string
	Description string
	Tags        []string
	Category    string
}

// Normalize trims whitespace and drops empty or duplicate tags.
func (in DeckInput) Normalize() DeckInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)

	seen := make(map[string]bool, len(in.Tags))
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	in.Tags = tags
	return in
}
