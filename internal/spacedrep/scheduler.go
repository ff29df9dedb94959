package spacedrep

import (
	"fmt"
	"math"
	"time"
)

// Next computes a card's scheduling state after one review graded with
// quality q on the day containing today. It is a pure function of its
// inputs; the returned State replaces all four fields of the old one.
//
// A lapse (q < 3) resets the streak and interval and keeps the ease factor.
// A success updates the ease factor with the SM-2 formula (floored at
// MinEaseFactor) and grows the interval: 1 day, then 6 days, then
// round(interval * ease).
func Next(state State, q Quality, today time.Time) (State, error) {
	if !q.IsValid() {
		return State{}, fmt.Errorf("%w: got %d", ErrInvalidQuality, int(q))
	}

	next := state.withDefaults()

	if !q.IsCorrect() {
		next.Repetitions = 0
		next.Interval = 0
	} else {
		next.EaseFactor = nextEaseFactor(next.EaseFactor, q)

		switch next.Repetitions {
		case 0:
			next.Interval = FirstInterval
		case 1:
			next.Interval = SecondInterval
		default:
			next.Interval = int(math.Round(float64(next.Interval) * next.EaseFactor))
		}
		next.Repetitions++
	}

	next.NextReview = AddDays(today, next.Interval)
	return next, nil
}

// nextEaseFactor applies the SM-2 ease update for a successful review.
// Quality 5 adds 0.1; quality 3 subtracts 0.14.
func nextEaseFactor(ease float64, q Quality) float64 {
	d := float64(Perfect - q)
	return math.Max(MinEaseFactor, ease+(0.1-d*(0.08+d*0.02)))
}
