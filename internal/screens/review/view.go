package review

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashdeck/internal/spacedrep"
	"github.com/abhisek/flashdeck/internal/ui/components"
	"github.com/abhisek/flashdeck/internal/ui/layout"
	"github.com/abhisek/flashdeck/internal/ui/theme"
)

var ratingLabels = []string{
	"0 blackout", "1 familiar", "2 easy once seen",
	"3 hard", "4 hesitant", "5 perfect",
}

func (s *ReviewScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return layout.Message(theme.ErrorText, "Error: "+s.errMsg, width, height)
	case !s.loaded:
		return layout.Message(theme.Hint, "Loading due cards...", width, height)
	case len(s.cards) == 0:
		return layout.Message(theme.Correct, "All caught up! No cards are due.", width, height)
	case s.index >= len(s.cards):
		return layout.Message(theme.Hint, "Saving session...", width, height)
	}

	card := s.cards[s.index]
	faceWidth := min(width-8, 70)

	var b strings.Builder
	b.WriteString(components.NewProgressBar(s.index, len(s.cards), faceWidth).View())
	b.WriteString("\n\n")
	b.WriteString(theme.Question.Width(faceWidth).Render(card.Question))
	b.WriteString("\n")

	if s.revealed {
		b.WriteString(theme.Answer.Width(faceWidth).Render(card.Answer))
		b.WriteString("\n\n")
		b.WriteString(renderRatings())
	} else {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Press space to show the answer"))
	}

	if s.lastNext != nil {
		b.WriteString("\n\n")
		b.WriteString(theme.Dim.Render(fmt.Sprintf("Previous card: next review in %s", intervalText(*s.lastNext))))
	}

	return layout.Center(b.String(), width, height)
}

func renderRatings() string {
	parts := make([]string, len(ratingLabels))
	for i, l := range ratingLabels {
		style := theme.Incorrect
		if spacedrep.Quality(i).IsCorrect() {
			style = theme.Correct
		}
		parts[i] = style.Render(l)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts[:3], "   "), "     ", strings.Join(parts[3:], "   "))
}

func intervalText(st spacedrep.State) string {
	switch st.Interval {
	case 0:
		return "less than a day"
	case 1:
		return "1 day"
	}
	return fmt.Sprintf("%d days", st.Interval)
}
