package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashdeck/internal/router"
	"github.com/abhisek/flashdeck/internal/screen"
	"github.com/abhisek/flashdeck/internal/store"
	"github.com/abhisek/flashdeck/internal/ui/layout"
	"github.com/abhisek/flashdeck/internal/ui/theme"
)

// Limit is the number of sessions shown.
const Limit = 50

// SessionSource lists past sessions, newest first.
type SessionSource interface {
	RecentSessions(ctx context.Context, limit int) ([]store.Session, error)
}

type historyLoadedMsg struct {
	Sessions []store.Session
	Err      error
}

// HistoryScreen lists past study sessions and mock tests.
type HistoryScreen struct {
	src      SessionSource
	sessions []store.Session
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen.
func New(src SessionSource) *HistoryScreen {
	return &HistoryScreen{src: src}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.src.RecentSessions(context.Background(), Limit)
		return historyLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.sessions = msg.Sessions
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return layout.Message(theme.ErrorText, "Error: "+s.errMsg, width, height)
	case !s.loaded:
		return layout.Message(theme.Hint, "Loading history...", width, height)
	case len(s.sessions) == 0:
		return layout.Message(theme.Hint, "No sessions yet. Start studying!", width, height)
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, sess := range s.sessions {
		prefix := "  "
		style := theme.Unselected
		if i == s.selected {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+Line(sess))))
		b.WriteString("\n")
	}
	return b.String()
}

// Line formats one session for listing.
func Line(sess store.Session) string {
	date := sess.StartTime.Local().Format("Jan 02 15:04")
	dur := fmt.Sprintf("%d:%02d", sess.DurationSecs/60, sess.DurationSecs%60)

	var result string
	switch {
	case sess.Active:
		result = "in progress"
	case sess.Mode == store.ModeExam:
		result = fmt.Sprintf("test  %d/%d correct", sess.Score, sess.CardsReviewed)
	default:
		acc := 0
		if sess.CardsReviewed > 0 {
			acc = (sess.CorrectAnswers*100 + sess.CardsReviewed/2) / sess.CardsReviewed
		}
		result = fmt.Sprintf("study %d cards  %d%% accuracy", sess.CardsReviewed, acc)
	}
	return fmt.Sprintf("%s  %s  %s", date, dur, result)
}
