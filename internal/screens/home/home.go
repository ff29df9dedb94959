package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashdeck/internal/router"
	"github.com/abhisek/flashdeck/internal/screen"
	"github.com/abhisek/flashdeck/internal/study"
	"github.com/abhisek/flashdeck/internal/ui/components"
	"github.com/abhisek/flashdeck/internal/ui/layout"
	"github.com/abhisek/flashdeck/internal/ui/theme"
)

// StatsSource provides the deck list with due counts.
type StatsSource interface {
	Analytics(ctx context.Context) (*study.Analytics, error)
}

// Navigator builds the screens reachable from home.
type Navigator interface {
	Review(deckID, title string) screen.Screen
	Exam(deckID, title string) screen.Screen
	History() screen.Screen
}

type statsLoadedMsg struct {
	Stats *study.Analytics
	Err   error
}

// HomeScreen lists the decks and launches study, exams and history.
type HomeScreen struct {
	stats  StatsSource
	nav    Navigator
	data   *study.Analytics
	menu   components.Menu
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen.
func New(stats StatsSource, nav Navigator) *HomeScreen {
	return &HomeScreen{stats: stats, nav: nav}
}

// Init reloads the statistics. It runs again whenever the user returns
// to this screen.
func (h *HomeScreen) Init() tea.Cmd {
	return func() tea.Msg {
		a, err := h.stats.Analytics(context.Background())
		return statsLoadedMsg{Stats: a, Err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Decks"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Study"},
		{Key: "T", Description: "Mock test"},
		{Key: "H", Description: "History"},
		{Key: "Q", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		h.loaded = true
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.errMsg = ""
		h.data = msg.Stats
		selected := h.menu.Selected
		h.menu = components.NewMenu(h.buildItems())
		if selected < len(h.menu.Items) {
			h.menu.Selected = selected
		}
		due := totalDue(msg.Stats)
		return h, func() tea.Msg { return screen.DueCountMsg{Due: due} }

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return h, tea.Quit
		case "h":
			return h, push(h.nav.History())
		case "t":
			if h.menu.Selected > 0 {
				d := h.data.Decks[h.menu.Selected-1]
				return h, push(h.nav.Exam(d.DeckID, d.Title))
			}
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) buildItems() []components.MenuItem {
	items := []components.MenuItem{{
		Label:  "All decks",
		Detail: fmt.Sprintf("%d due", totalDue(h.data)),
		Action: func() tea.Cmd { return push(h.nav.Review("", "All decks")) },
	}}
	for _, d := range h.data.Decks {
		items = append(items, components.MenuItem{
			Label:  d.Title,
			Detail: fmt.Sprintf("%d cards, %d due", d.Cards, d.Due),
			Action: func() tea.Cmd { return push(h.nav.Review(d.DeckID, d.Title)) },
		})
	}
	return items
}

func (h *HomeScreen) View(width, height int) string {
	if h.errMsg != "" {
		return layout.Message(theme.ErrorText, "Error: "+h.errMsg, width, height)
	}
	if !h.loaded {
		return layout.Message(theme.Hint, "Loading decks...", width, height)
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Your decks"))
	b.WriteString("\n\n")
	b.WriteString(h.menu.View())
	if len(h.data.Decks) == 0 {
		b.WriteString("\n" + theme.Hint.Render("No decks yet. Create one with `flashdeck deck create`."))
	}
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render(fmt.Sprintf(
		"Sessions %d   Today %d min   Reviews %d   Accuracy %d%%",
		h.data.CompletedSessions, h.data.MinutesToday, h.data.TotalReviews, h.data.Accuracy)))

	box := lipgloss.NewStyle().Padding(1, 4).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

func totalDue(a *study.Analytics) int {
	if a == nil {
		return 0
	}
	n := 0
	for _, d := range a.Decks {
		n += d.Due
	}
	return n
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}
