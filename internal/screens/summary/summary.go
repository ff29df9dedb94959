package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashdeck/internal/router"
	"github.com/abhisek/flashdeck/internal/screen"
	"github.com/abhisek/flashdeck/internal/store"
	"github.com/abhisek/flashdeck/internal/ui/layout"
	"github.com/abhisek/flashdeck/internal/ui/theme"
)

// Result is what a finished session reports.
type Result struct {
	DeckTitle string
	Mode      store.SessionMode
	Reviewed  int
	Correct   int
	Duration  time.Duration
}

// FromSession builds a Result from an ended session. For exams the score
// is the number of correct answers.
func FromSession(s *store.Session, deckTitle string) Result {
	r := Result{
		DeckTitle: deckTitle,
		Mode:      s.Mode,
		Reviewed:  s.CardsReviewed,
		Correct:   s.CorrectAnswers,
		Duration:  time.Duration(s.DurationSecs) * time.Second,
	}
	if s.Mode == store.ModeExam {
		r.Correct = s.Score
	}
	return r
}

// Accuracy returns the rounded percentage of correct answers.
func (r Result) Accuracy() int {
	if r.Reviewed == 0 {
		return 0
	}
	return (r.Correct*100 + r.Reviewed/2) / r.Reviewed
}

// SummaryScreen shows the outcome of a study session or mock test.
type SummaryScreen struct {
	result Result
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen.
func New(r Result) *SummaryScreen {
	return &SummaryScreen{result: r}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	if s.result.Mode == store.ModeExam {
		return "Test Result"
	}
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.result
	var b strings.Builder

	heading := "Session complete!"
	if r.Mode == store.ModeExam {
		heading = "Test complete!"
	}
	b.WriteString(theme.Title.Render(heading))
	b.WriteString("\n")
	if r.DeckTitle != "" {
		b.WriteString(theme.Dim.Render(r.DeckTitle))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	mins := int(r.Duration.Minutes())
	secs := int(r.Duration.Seconds()) % 60
	b.WriteString(theme.Dim.Render(fmt.Sprintf("Duration %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	if r.Mode == store.ModeExam {
		b.WriteString(theme.Body.Render(fmt.Sprintf("Score %d / %d", r.Correct, r.Reviewed)))
	} else {
		b.WriteString(theme.Body.Render(fmt.Sprintf("Cards %d   Correct %d   Incorrect %d",
			r.Reviewed, r.Correct, r.Reviewed-r.Correct)))
	}
	b.WriteString("\n")

	acc := fmt.Sprintf("Accuracy %d%%", r.Accuracy())
	style := theme.Correct
	if r.Accuracy() < 60 {
		style = theme.Incorrect
	}
	b.WriteString(style.Render(acc))

	return layout.Center(lipgloss.NewStyle().Align(lipgloss.Center).Render(b.String()), width, height)
}
