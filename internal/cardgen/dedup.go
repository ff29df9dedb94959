package cardgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/flashdeck/internal/flashcard"
)

// buildAvoidList formats the deck's existing questions for the prompt,
// keeping the last max of them. Returns "" if there are none.
func buildAvoidList(existing []string, max int) string {
	if len(existing) == 0 {
		return ""
	}
	if max > 0 && len(existing) > max {
		existing = existing[len(existing)-max:]
	}

	var b strings.Builder
	b.WriteString("The deck already has these questions; do not repeat them:\n")
	for i, q := range existing {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

func questionKey(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

// dropDuplicates removes drafts whose question matches an existing one or
// an earlier draft, ignoring case and spacing.
func dropDuplicates(drafts []flashcard.Draft, existing []string) ([]flashcard.Draft, int) {
	seen := make(map[string]bool, len(existing)+len(drafts))
	for _, q := range existing {
		seen[questionKey(q)] = true
	}

	out := drafts[:0]
	var dropped int
	for _, d := range drafts {
		k := questionKey(d.Question)
		if seen[k] {
			dropped++
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out, dropped
}
