package flashcard

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
	MaxTags           = 10
	MinMCQOptions     = 2
)

var (
	ErrInvalidCard = errors.New("invalid card")
	ErrInvalidDeck = errors.New("invalid deck")
)

// ValidateDraft checks a normalized draft.
func ValidateDraft(d Draft) error {
	if d.Question == "" {
		return fmt.Errorf("%w: question is required", ErrInvalidCard)
	}
	switch d.Type {
	case TypeFlashcard:
		if d.Answer == "" {
			return fmt.Errorf("%w: answer is required", ErrInvalidCard)
		}
	case TypeMCQ:
		if len(d.Options) < MinMCQOptions {
			return fmt.Errorf("%w: multiple choice needs at least %d options", ErrInvalidCard, MinMCQOptions)
		}
		for i, o := range d.Options {
			if o == "" {
				return fmt.Errorf("%w: option %d is empty", ErrInvalidCard, i)
			}
		}
		if d.CorrectIndex < 0 || d.CorrectIndex >= len(d.Options) {
			return fmt.Errorf("%w: correct option %d out of range", ErrInvalidCard, d.CorrectIndex)
		}
		if d.Answer == "" {
			return fmt.Errorf("%w: answer is required", ErrInvalidCard)
		}
	default:
		return fmt.Errorf("%w: unknown card type %q", ErrInvalidCard, d.Type)
	}
	return nil
}

// ValidateDeck checks a normalized deck input.
func ValidateDeck(in DeckInput) error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidDeck)
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLen {
		return fmt.Errorf("%w: title cannot exceed %d characters", ErrInvalidDeck, MaxTitleLen)
	}
	if utf8.RuneCountInString(in.Description) > MaxDescriptionLen {
		return fmt.Errorf("%w: description cannot exceed %d characters", ErrInvalidDeck, MaxDescriptionLen)
	}
	if len(in.Tags) > MaxTags {
		return fmt.Errorf("%w: cannot have more than %d tags", ErrInvalidDeck, MaxTags)
	}
	return nil
}
