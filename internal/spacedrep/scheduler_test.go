package spacedrep

import (
	"errors"
	"math"
	"testing"
	"time"
)

var day0 = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func mustNext(t *testing.T, s State, q Quality, today time.Time) State {
	t.Helper()
	next, err := Next(s, q, today)
	if err != nil {
		t.Fatalf("Next(%+v, %d): %v", s, q, err)
	}
	return next
}

func TestNext_InvalidQuality(t *testing.T) {
	for _, q := range []Quality{-1, 6, 42} {
		_, err := Next(NewState(day0), q, day0)
		if !errors.Is(err, ErrInvalidQuality) {
			t.Errorf("Next(q=%d) err = %v, want ErrInvalidQuality", q, err)
		}
	}
}

func TestNext_BoundaryQualitiesAccepted(t *testing.T) {
	for _, q := range []Quality{Blackout, Perfect} {
		if _, err := Next(NewState(day0), q, day0); err != nil {
			t.Errorf("Next(q=%d): unexpected error %v", q, err)
		}
	}
}

func TestNext_LapseResetsStreak(t *testing.T) {
	states := []State{
		NewState(day0),
		{EaseFactor: 2.7, Interval: 20, Repetitions: 3, NextReview: day0},
		{EaseFactor: 1.3, Interval: 100, Repetitions: 12, NextReview: day0},
		{EaseFactor: 3.1, Interval: 6, Repetitions: 2},
	}
	for _, s := range states {
		for q := Blackout; q < PassingQuality; q++ {
			got := mustNext(t, s, q, day0)
			if got.Repetitions != 0 {
				t.Errorf("q=%d from %+v: Repetitions = %d, want 0", q, s, got.Repetitions)
			}
			if got.Interval != 0 {
				t.Errorf("q=%d from %+v: Interval = %d, want 0", q, s, got.Interval)
			}
			if got.EaseFactor != s.EaseFactor {
				t.Errorf("q=%d from %+v: EaseFactor = %v, want unchanged %v", q, s, got.EaseFactor, s.EaseFactor)
			}
		}
	}
}

func TestNext_LapseMidStreak(t *testing.T) {
	s := State{EaseFactor: 2.7, Interval: 20, Repetitions: 3, NextReview: day0}
	got := mustNext(t, s, EasyRecall, day0)

	if got.Repetitions != 0 || got.Interval != 0 || got.EaseFactor != 2.7 {
		t.Errorf("got %+v, want reps=0 interval=0 ease=2.7", got)
	}
	if !got.NextReview.Equal(StartOfDay(day0)) {
		t.Errorf("NextReview = %v, want start of today %v", got.NextReview, StartOfDay(day0))
	}
}

func TestNext_FirstTwoSuccessesFixed(t *testing.T) {
	for _, ease := range []float64{1.3, 2.0, 2.5, 3.4} {
		for q := PassingQuality; q <= Perfect; q++ {
			first := mustNext(t, State{EaseFactor: ease, Repetitions: 0, Interval: 0}, q, day0)
			if first.Interval != FirstInterval {
				t.Errorf("ease=%v q=%d reps=0: Interval = %d, want %d", ease, q, first.Interval, FirstInterval)
			}
			second := mustNext(t, State{EaseFactor: ease, Repetitions: 1, Interval: 1}, q, day0)
			if second.Interval != SecondInterval {
				t.Errorf("ease=%v q=%d reps=1: Interval = %d, want %d", ease, q, second.Interval, SecondInterval)
			}
		}
	}
}

func TestNext_EaseFactorDeltas(t *testing.T) {
	tests := []struct {
		q    Quality
		want float64
	}{
		{Perfect, 2.6},
		{Hesitant, 2.5},
		{Effortful, 2.36},
	}
	for _, tt := range tests {
		got := mustNext(t, NewState(day0), tt.q, day0)
		if math.Abs(got.EaseFactor-tt.want) > 1e-9 {
			t.Errorf("q=%d: EaseFactor = %v, want %v", tt.q, got.EaseFactor, tt.want)
		}
	}
}

func TestNext_EaseFloor(t *testing.T) {
	s := NewState(day0)
	today := day0
	// Alternate the harshest passing grade with lapses for a long time.
	for i := 0; i < 200; i++ {
		q := Effortful
		if i%3 == 2 {
			q = Blackout
		}
		s = mustNext(t, s, q, today)
		if s.EaseFactor < MinEaseFactor {
			t.Fatalf("review %d: EaseFactor = %v, below floor %v", i, s.EaseFactor, MinEaseFactor)
		}
		today = today.AddDate(0, 0, 1)
	}
	if s.EaseFactor != MinEaseFactor {
		t.Errorf("EaseFactor = %v, want it pinned at %v", s.EaseFactor, MinEaseFactor)
	}
}

func TestNext_MonotoneGrowthOnPerfect(t *testing.T) {
	s := State{EaseFactor: 1.3, Interval: 6, Repetitions: 2}
	today := day0
	prev := s.Interval
	for i := 0; i < 15; i++ {
		s = mustNext(t, s, Perfect, today)
		if s.Interval < prev {
			t.Fatalf("step %d: Interval = %d, decreased from %d", i, s.Interval, prev)
		}
		prev = s.Interval
		today = AddDays(today, s.Interval)
	}
}

func TestNext_EndToEndScenario(t *testing.T) {
	s := NewState(day0)
	today := day0

	var intervals []int
	for _, q := range []Quality{Perfect, Perfect, Hesitant} {
		s = mustNext(t, s, q, today)
		intervals = append(intervals, s.Interval)
		today = today.AddDate(0, 0, 1)
	}

	want := []int{1, 6, 16}
	for i := range want {
		if intervals[i] != want[i] {
			t.Errorf("intervals = %v, want %v", intervals, want)
			break
		}
	}
	if math.Abs(s.EaseFactor-2.7) > 1e-9 {
		t.Errorf("EaseFactor = %v, want 2.7", s.EaseFactor)
	}
	if s.Repetitions != 3 {
		t.Errorf("Repetitions = %d, want 3", s.Repetitions)
	}
}

func TestNext_NextReviewNormalized(t *testing.T) {
	got := mustNext(t, NewState(day0), Perfect, day0)
	want := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	if !got.NextReview.Equal(want) {
		t.Errorf("NextReview = %v, want %v", got.NextReview, want)
	}
}

func TestNext_KeepsTodayLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	today := time.Date(2025, 3, 10, 23, 0, 0, 0, loc)
	got := mustNext(t, NewState(today), Perfect, today)

	want := time.Date(2025, 3, 11, 0, 0, 0, 0, loc)
	if !got.NextReview.Equal(want) {
		t.Errorf("NextReview = %v, want %v", got.NextReview, want)
	}
}

func TestNext_MissingFieldsDefault(t *testing.T) {
	got := mustNext(t, State{}, Hesitant, day0)
	if got.EaseFactor != DefaultEaseFactor {
		t.Errorf("EaseFactor = %v, want %v", got.EaseFactor, DefaultEaseFactor)
	}
	if got.Interval != 1 || got.Repetitions != 1 {
		t.Errorf("got interval=%d reps=%d, want 1/1", got.Interval, got.Repetitions)
	}
}

func TestNext_StoredEaseBelowFloorIsClamped(t *testing.T) {
	tests := []struct {
		name string
		ease float64
		q    Quality
		want float64
	}{
		{"lapse from 1.0", 1.0, Blackout, MinEaseFactor},
		{"lapse from negative", -2, Blackout, MinEaseFactor},
		{"success from 1.0", 1.0, Perfect, MinEaseFactor + 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustNext(t, State{EaseFactor: tt.ease, Interval: 5, Repetitions: 3}, tt.q, day0)
			if math.Abs(got.EaseFactor-tt.want) > 1e-9 {
				t.Errorf("EaseFactor = %v, want %v", got.EaseFactor, tt.want)
			}
		})
	}
}

func TestNext_Deterministic(t *testing.T) {
	s := State{EaseFactor: 2.2, Interval: 9, Repetitions: 4, NextReview: day0}
	a := mustNext(t, s, Hesitant, day0)
	b := mustNext(t, s, Hesitant, day0)
	if a != b {
		t.Errorf("Next is not deterministic: %+v vs %+v", a, b)
	}
	if s.Interval != 9 || s.Repetitions != 4 {
		t.Errorf("input state was mutated: %+v", s)
	}
}
