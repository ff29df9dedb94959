package flashcard

import (
	"strings"
	"time"

	"github.com/abhisek/flashdeck/internal/spacedrep"
)

// CardType distinguishes plain Q/A cards from multiple-choice questions.
type CardType string

const (
	TypeFlashcard CardType = "flashcard"
	TypeMCQ       CardType = "mcq"
)

// Card is a single flashcard together with its scheduling state and
// performance counters.
type Card struct {
	ID           string
	DeckID       string
	UserID       string
	Question     string
	Answer       string
	Type         CardType
	Options      []string
	CorrectIndex int

	Schedule     spacedrep.State
	LastReviewed *time.Time

	ReviewCount    int
	CorrectCount   int
	IncorrectCount int

	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft holds the user-editable content of a card.
type Draft struct {
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Type         CardType `json:"cardType"`
	Options      []string `json:"options,omitempty"`
	CorrectIndex int      `json:"correctAnswerIndex"`
}

// Normalize trims whitespace, defaults the card type and fills the
// answer of an MCQ from its correct option when missing.
func (d Draft) Normalize() Draft {
	d.Question = strings.TrimSpace(d.Question)
	d.Answer = strings.TrimSpace(d.Answer)
	if d.Type == "" {
		d.Type = TypeFlashcard
	}
	if d.Type == TypeMCQ {
		opts := make([]string, 0, len(d.Options))
		for _, o := range d.Options {
			opts = append(opts, strings.TrimSpace(o))
		}
		d.Options = opts
		if d.Answer == "" && d.CorrectIndex >= 0 && d.CorrectIndex < len(d.Options) {
			d.Answer = d.Options[d.CorrectIndex]
		}
	} else {
		d.Options = nil
		d.CorrectIndex = 0
	}
	return d
}

// NewCard builds a card from a validated draft with SM-2 defaults, due now.
func NewCard(id, deckID, userID string, d Draft, now time.Time) *Card {
	d = d.Normalize()
	return &Card{
		ID:           id,
		DeckID:       deckID,
		UserID:       userID,
		Question:     d.Question,
		Answer:       d.Answer,
		Type:         d.Type,
		Options:      d.Options,
		CorrectIndex: d.CorrectIndex,
		Schedule:     spacedrep.NewState(now),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ApplyReview replaces the card's scheduling state with next as one unit
// and updates the performance counters.
func (c *Card) ApplyReview(next spacedrep.State, correct bool, now time.Time) {
	c.Schedule = next
	c.LastReviewed = &now
	c.ReviewCount++
	if correct {
		c.CorrectCount++
	} else {
		c.IncorrectCount++
	}
	c.UpdatedAt = now
}

// IsMCQ reports whether the card is a multiple-choice question.
func (c Card) IsMCQ() bool {
	return c.Type == TypeMCQ && len(c.Options) > 1
}

// Draft returns the editable content of the card.
func (c Card) Draft() Draft {
	return Draft{
		Question:     c.Question,
		Answer:       c.Answer,
		Type:         c.Type,
		Options:      append([]string(nil), c.Options...),
		CorrectIndex: c.CorrectIndex,
	}
}
