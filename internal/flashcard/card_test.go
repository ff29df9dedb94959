package flashcard

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/flashdeck/internal/spacedrep"
)

func TestDraftNormalize_MCQAnswerFromOption(t *testing.T) {
	d := Draft{
		Question:     "  Capital of France? ",
		Type:         TypeMCQ,
		Options:      []string{" Berlin", "Paris ", "Rome"},
		CorrectIndex: 1,
	}.Normalize()

	if d.Question != "Capital of France?" {
		t.Errorf("Question = %q", d.Question)
	}
	if d.Answer != "Paris" {
		t.Errorf("Answer = %q, want %q", d.Answer, "Paris")
	}
	if err := ValidateDraft(d); err != nil {
		t.Errorf("ValidateDraft: %v", err)
	}
}

func TestDraftNormalize_PlainDropsOptions(t *testing.T) {
	d := Draft{Question: "q", Answer: "a", Options: []string{"x"}, CorrectIndex: 3}.Normalize()
	if d.Type != TypeFlashcard {
		t.Errorf("Type = %q, want flashcard", d.Type)
	}
	if d.Options != nil || d.CorrectIndex != 0 {
		t.Errorf("expected options cleared, got %v / %d", d.Options, d.CorrectIndex)
	}
}

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		ok    bool
	}{
		{"plain ok", Draft{Question: "q", Answer: "a", Type: TypeFlashcard}, true},
		{"missing question", Draft{Answer: "a", Type: TypeFlashcard}, false},
		{"missing answer", Draft{Question: "q", Type: TypeFlashcard}, false},
		{"mcq one option", Draft{Question: "q", Answer: "a", Type: TypeMCQ, Options: []string{"a"}}, false},
		{"mcq index out of range", Draft{Question: "q", Answer: "a", Type: TypeMCQ, Options: []string{"a", "b"}, CorrectIndex: 2}, false},
		{"mcq empty option", Draft{Question: "q", Answer: "a", Type: TypeMCQ, Options: []string{"a", ""}}, false},
		{"unknown type", Draft{Question: "q", Answer: "a", Type: "essay"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraft(tt.draft)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidCard) {
				t.Errorf("err = %v, want ErrInvalidCard", err)
			}
		})
	}
}

func TestValidateDeck(t *testing.T) {
	tooManyTags := make([]string, MaxTags+1)
	for i := range tooManyTags {
		tooManyTags[i] = string(rune('a' + i))
	}
	tests := []struct {
		name string
		in   DeckInput
		ok   bool
	}{
		{"ok", DeckInput{Title: "Spanish"}, true},
		{"empty title", DeckInput{}, false},
		{"long title", DeckInput{Title: strings.Repeat("x", MaxTitleLen+1)}, false},
		{"long description", DeckInput{Title: "t", Description: strings.Repeat("x", MaxDescriptionLen+1)}, false},
		{"too many tags", DeckInput{Title: "t", Tags: tooManyTags}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeck(tt.in.Normalize())
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidDeck) {
				t.Errorf("err = %v, want ErrInvalidDeck", err)
			}
		})
	}
}

func TestDeckInputNormalize_DedupTags(t *testing.T) {
	in := DeckInput{Title: " Go ", Tags: []string{"lang", " lang", "", "go"}}.Normalize()
	if in.Title != "Go" {
		t.Errorf("Title = %q", in.Title)
	}
	if len(in.Tags) != 2 || in.Tags[0] != "lang" || in.Tags[1] != "go" {
		t.Errorf("Tags = %v, want [lang go]", in.Tags)
	}
}

func TestNewCard_DueImmediately(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	c := NewCard("c1", "d1", "u1", Draft{Question: "q", Answer: "a"}, now)

	if c.Schedule != spacedrep.NewState(now) {
		t.Errorf("Schedule = %+v, want new state", c.Schedule)
	}
	if c.Type != TypeFlashcard {
		t.Errorf("Type = %q", c.Type)
	}
}

func TestApplyReview_Counters(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	c := NewCard("c1", "d1", "u1", Draft{Question: "q", Answer: "a"}, now)

	next, err := spacedrep.Next(c.Schedule, spacedrep.Perfect, now)
	if err != nil {
		t.Fatal(err)
	}
	c.ApplyReview(next, true, now)
	c.ApplyReview(spacedrep.State{EaseFactor: next.EaseFactor}, false, now)

	if c.ReviewCount != 2 || c.CorrectCount != 1 || c.IncorrectCount != 1 {
		t.Errorf("counters = %d/%d/%d, want 2/1/1", c.ReviewCount, c.CorrectCount, c.IncorrectCount)
	}
	if c.LastReviewed == nil || !c.LastReviewed.Equal(now) {
		t.Errorf("LastReviewed = %v, want %v", c.LastReviewed, now)
	}
}

func TestCardValueMethods(t *testing.T) {
	mcq := func() Card {
		return Card{Question: "2+2?", Answer: "4", Type: TypeMCQ, Options: []string{"3", "4"}, CorrectIndex: 1}
	}

	if !mcq().IsMCQ() {
		t.Error("IsMCQ() = false for a two-option MCQ")
	}
	if (Card{Type: TypeMCQ, Options: []string{"only"}}).IsMCQ() {
		t.Error("IsMCQ() = true with a single option")
	}

	c := mcq()
	d := c.Draft()
	d.Options[0] = "changed"
	if c.Options[0] != "3" {
		t.Errorf("Draft shares its options with the card: %v", c.Options)
	}
	if got := mcq().Draft(); got.Type != TypeMCQ || got.CorrectIndex != 1 {
		t.Errorf("Draft() = %+v", got)
	}
}
