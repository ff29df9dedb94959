package spacedrep

import "time"

// State holds the scheduling fields of a single card. The four fields are
// always replaced together; callers must never persist a partial update.
//
// Zero values mean "not recorded yet": a zero EaseFactor is read as
// DefaultEaseFactor and a zero NextReview as "due now".
type State struct {
	EaseFactor  float64   `json:"ease_factor"`
	Interval    int       `json:"interval"`
	Repetitions int       `json:"repetitions"`
	NextReview  time.Time `json:"next_review"`
}

// NewState returns the state of a freshly created card, due immediately.
func NewState(now time.Time) State {
	return State{
		EaseFactor:  DefaultEaseFactor,
		Interval:    0,
		Repetitions: 0,
		NextReview:  now,
	}
}

// withDefaults fills in the values a brand-new or partially recorded
// card is missing and pulls out-of-range stored values back into range.
func (s State) withDefaults() State {
	switch {
	case s.EaseFactor == 0:
		s.EaseFactor = DefaultEaseFactor
	case s.EaseFactor < MinEaseFactor:
		s.EaseFactor = MinEaseFactor
	}
	if s.Interval < 0 {
		s.Interval = 0
	}
	if s.Repetitions < 0 {
		s.Repetitions = 0
	}
	return s
}

// HasNextReview reports whether a next-review date has been recorded.
func (s State) HasNextReview() bool {
	return !s.NextReview.IsZero()
}

// StartOfDay truncates t to midnight of its calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AddDays returns the start of the day that is n calendar days after t.
// Calendar arithmetic keeps the result at midnight across DST changes.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+n, 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of calendar days from a to b, both
// normalized to the start of their day in a's location.
func DaysBetween(a, b time.Time) int {
	from := StartOfDay(a)
	to := StartOfDay(b.In(a.Location()))
	// Round to absorb the 23h/25h days around DST transitions.
	hours := to.Sub(from).Hours()
	if hours >= 0 {
		return int((hours + 12) / 24)
	}
	return -int((-hours + 12) / 24)
}
