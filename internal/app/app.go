package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/flashdeck/internal/mocktest"
	"github.com/abhisek/flashdeck/internal/router"
	"github.com/abhisek/flashdeck/internal/screen"
	"github.com/abhisek/flashdeck/internal/screens/exam"
	"github.com/abhisek/flashdeck/internal/screens/history"
	"github.com/abhisek/flashdeck/internal/screens/home"
	"github.com/abhisek/flashdeck/internal/screens/review"
	"github.com/abhisek/flashdeck/internal/study"
	"github.com/abhisek/flashdeck/internal/ui/layout"
)

// Options selects the services and the first screen of the UI.
type Options struct {
	Study *study.Service
	Tests *mocktest.Service

	// Questions is the mock test size.
	Questions int

	// Start opens a screen directly instead of the deck list.
	Start     StartScreen
	DeckID    string
	DeckTitle string
}

// StartScreen names the screen the UI opens on.
type StartScreen int

const (
	StartHome StartScreen = iota
	StartReview
	StartExam
)

// navigator builds screens for the home menu.
type navigator struct {
	opts Options
}

func (n navigator) Review(deckID, title string) screen.Screen {
	return review.New(n.opts.Study, deckID, title)
}

func (n navigator) Exam(deckID, title string) screen.Screen {
	return exam.New(n.opts.Tests, deckID, title, n.opts.Questions)
}

func (n navigator) History() screen.Screen {
	return history.New(n.opts.Study)
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	due    int
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	nav := navigator{opts: opts}
	var first screen.Screen = home.New(opts.Study, nav)
	switch opts.Start {
	case StartReview:
		first = nav.Review(opts.DeckID, opts.DeckTitle)
	case StartExam:
		first = nav.Exam(opts.DeckID, opts.DeckTitle)
	}
	return AppModel{router: router.New(first)}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.DueCountMsg:
		m.due = msg.Due
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if bi, ok := m.router.Active().(screen.BackInterceptor); ok && bi.InterceptsBack() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}

	case router.PopScreenMsg:
		// A directly opened study or test screen has nowhere to go back to.
		if m.router.Depth() == 1 {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.due, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = append(hp.KeyHints(), hints...)
	} else if m.router.Depth() > 1 {
		hints = append([]layout.KeyHint{{Key: "Esc", Description: "Back"}}, hints...)
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the terminal UI and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}
