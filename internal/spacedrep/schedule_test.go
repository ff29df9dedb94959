package spacedrep

import (
	"errors"
	"testing"
)

func TestConstants(t *testing.T) {
	if DefaultEaseFactor != 2.5 {
		t.Errorf("DefaultEaseFactor = %v, want 2.5", DefaultEaseFactor)
	}
	if MinEaseFactor != 1.3 {
		t.Errorf("MinEaseFactor = %v, want 1.3", MinEaseFactor)
	}
	if FirstInterval != 1 || SecondInterval != 6 {
		t.Errorf("intervals = %d/%d, want 1/6", FirstInterval, SecondInterval)
	}
}

func TestQuality_IsCorrect(t *testing.T) {
	for q := Blackout; q <= Perfect; q++ {
		want := q >= 3
		if q.IsCorrect() != want {
			t.Errorf("Quality(%d).IsCorrect() = %v, want %v", q, q.IsCorrect(), want)
		}
	}
}

func TestQuality_String(t *testing.T) {
	if Perfect.String() != "perfect" {
		t.Errorf("Perfect.String() = %q", Perfect.String())
	}
	if Quality(9).String() != "Quality(9)" {
		t.Errorf("Quality(9).String() = %q", Quality(9).String())
	}
}

func TestParseQuality(t *testing.T) {
	tests := []struct {
		in      string
		want    Quality
		wantErr bool
	}{
		{"0", Blackout, false},
		{" 5 ", Perfect, false},
		{"hesitant", Hesitant, false},
		{"EFFORTFUL", Effortful, false},
		{"6", 0, true},
		{"-1", 0, true},
		{"great", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseQuality(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidQuality) {
				t.Errorf("ParseQuality(%q) err = %v, want ErrInvalidQuality", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseQuality(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseQuality(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
