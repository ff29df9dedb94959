// Package due decides which cards should be presented for review now.
package due

import (
	"math"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/spacedrep"
)

// DefaultLimit caps a due batch when the caller gives no limit.
const DefaultLimit = 50

// Options scopes and bounds a selection. Empty IDs mean "any".
type Options struct {
	UserID string
	DeckID string
	Limit  int
}

// Select returns the cards that are due at now, most overdue first,
// truncated to opts.Limit. Soft-deleted cards and cards outside the
// requested user or deck are skipped. The input slice is not modified.
func Select(cards []flashcard.Card, now time.Time, opts Options) []flashcard.Card {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	selected := lo.Filter(cards, func(c flashcard.Card, _ int) bool {
		if c.Deleted {
			return false
		}
		if opts.UserID != "" && c.UserID != opts.UserID {
			return false
		}
		if opts.DeckID != "" && c.DeckID != opts.DeckID {
			return false
		}
		return IsDue(c, now)
	})

	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i].Schedule, selected[j].Schedule
		switch {
		case !a.HasNextReview() && !b.HasNextReview():
			return selected[i].ID < selected[j].ID
		case !a.HasNextReview():
			return true
		case !b.HasNextReview():
			return false
		case !a.NextReview.Equal(b.NextReview):
			return a.NextReview.Before(b.NextReview)
		}
		return selected[i].ID < selected[j].ID
	})

	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

// IsDue reports whether the card's review day is on or before now's day.
// Cards with no recorded next review are always due.
func IsDue(c flashcard.Card, now time.Time) bool {
	if !c.Schedule.HasNextReview() {
		return true
	}
	reviewDay := spacedrep.StartOfDay(c.Schedule.NextReview.In(now.Location()))
	return !reviewDay.After(spacedrep.StartOfDay(now))
}

// DaysUntilReview returns whole days until the card is due, negative when
// overdue and 0 when it is due today or has no next review.
func DaysUntilReview(c flashcard.Card, now time.Time) int {
	if !c.Schedule.HasNextReview() {
		return 0
	}
	return spacedrep.DaysBetween(now, c.Schedule.NextReview)
}

// Accuracy returns the rounded percentage of correct reviews, or 0 when
// the card has never been reviewed.
func Accuracy(c flashcard.Card) int {
	total := c.CorrectCount + c.IncorrectCount
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(c.CorrectCount) / float64(total) * 100))
}
