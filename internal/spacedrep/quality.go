package spacedrep

import (
	"fmt"
	"strconv"
	"strings"
)

// Quality is the learner's 0-5 self-assessment of recall for one review.
type Quality int

const (
	Blackout    Quality = iota // Complete blackout.
	Familiar                   // Incorrect, but the answer felt familiar.
	EasyRecall                 // Incorrect, but easy to recall once seen.
	Effortful                  // Correct, with serious effort.
	Hesitant                   // Correct, after some hesitation.
	Perfect                    // Perfect, immediate recall.
)

// PassingQuality is the lowest quality that counts as a correct answer.
const PassingQuality = Effortful

var qualityNames = [...]string{
	Blackout:   "blackout",
	Familiar:   "familiar",
	EasyRecall: "easy-recall",
	Effortful:  "effortful",
	Hesitant:   "hesitant",
	Perfect:    "perfect",
}

// IsValid reports whether q lies in [0, 5].
func (q Quality) IsValid() bool {
	return q >= Blackout && q <= Perfect
}

// IsCorrect reports whether q is a successful recall (q >= 3).
func (q Quality) IsCorrect() bool {
	return q >= PassingQuality
}

func (q Quality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// ParseQuality accepts either the numeric rating ("0".."5") or its name.
func ParseQuality(s string) (Quality, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if n, err := strconv.Atoi(s); err == nil {
		q := Quality(n)
		if !q.IsValid() {
			return 0, fmt.Errorf("%w: %d", ErrInvalidQuality, n)
		}
		return q, nil
	}
	for i, name := range qualityNames {
		if name == s {
			return Quality(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidQuality, s)
}
