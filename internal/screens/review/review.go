package review

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/router"
	"github.com/abhisek/flashdeck/internal/screen"
	"github.com/abhisek/flashdeck/internal/screens/summary"
	"github.com/abhisek/flashdeck/internal/spacedrep"
	"github.com/abhisek/flashdeck/internal/store"
	"github.com/abhisek/flashdeck/internal/study"
	"github.com/abhisek/flashdeck/internal/ui/layout"
)

// Studier is the part of the study service the review screen drives.
type Studier interface {
	StartSession(ctx context.Context, deckID string) (*store.Session, error)
	DueCards(ctx context.Context, deckID string) ([]flashcard.Card, error)
	SubmitReview(ctx context.Context, in study.SubmitInput) (*study.ReviewResult, error)
	EndSession(ctx context.Context, sessionID string) (*store.Session, error)
}

// ReviewScreen walks through the due cards of a deck: show the question,
// reveal the answer, rate recall from 0 to 5.
type ReviewScreen struct {
	svc       Studier
	deckID    string
	deckTitle string

	session  *store.Session
	cards    []flashcard.Card
	index    int
	revealed bool
	saving   bool
	ending   bool
	shownAt  time.Time
	loaded   bool
	errMsg   string
	lastNext *spacedrep.State

	// now is the screen clock. Tests replace it.
	now func() time.Time
}

var _ screen.Screen = (*ReviewScreen)(nil)
var _ screen.KeyHintProvider = (*ReviewScreen)(nil)
var _ screen.BackInterceptor = (*ReviewScreen)(nil)

// New creates a review screen for deckID; an empty deckID reviews the due
// cards of every deck.
func New(svc Studier, deckID, deckTitle string) *ReviewScreen {
	return &ReviewScreen{svc: svc, deckID: deckID, deckTitle: deckTitle, now: time.Now}
}

func (s *ReviewScreen) Init() tea.Cmd {
	svc, deckID := s.svc, s.deckID
	return func() tea.Msg {
		ctx := context.Background()
		cards, err := svc.DueCards(ctx, deckID)
		if err != nil || len(cards) == 0 {
			return loadedMsg{Err: err}
		}
		sess, err := svc.StartSession(ctx, deckID)
		if err != nil {
			return loadedMsg{Err: err}
		}
		return loadedMsg{Session: sess, Cards: cards}
	}
}

func (s *ReviewScreen) Title() string {
	if s.deckTitle != "" {
		return "Study: " + s.deckTitle
	}
	return "Study"
}

func (s *ReviewScreen) InterceptsBack() bool {
	return true
}

func (s *ReviewScreen) KeyHints() []layout.KeyHint {
	switch {
	case !s.loaded || s.errMsg != "" || len(s.cards) == 0:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case !s.revealed:
		return []layout.KeyHint{
			{Key: "Space", Description: "Show answer"},
			{Key: "Esc", Description: "Finish"},
		}
	}
	return []layout.KeyHint{
		{Key: "0-2", Description: "Forgot"},
		{Key: "3-5", Description: "Recalled"},
		{Key: "Esc", Description: "Finish"},
	}
}

func (s *ReviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)
	case reviewedMsg:
		return s.handleReviewed(msg)
	case endedMsg:
		return s.handleEnded(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ReviewScreen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	s.loaded = true
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.session = msg.Session
	s.cards = msg.Cards
	s.shownAt = s.now()
	return s, nil
}

func (s *ReviewScreen) handleReviewed(msg reviewedMsg) (screen.Screen, tea.Cmd) {
	s.saving = false
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	next := msg.Result.Next
	s.lastNext = &next
	s.index++
	s.revealed = false
	s.shownAt = s.now()
	if s.index >= len(s.cards) {
		return s, s.end()
	}
	return s, nil
}

func (s *ReviewScreen) handleEnded(msg endedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	res := summary.FromSession(msg.Session, s.deckTitle)
	return s, func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(res)}
	}
}

func (s *ReviewScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "esc" {
		if s.session != nil && s.errMsg == "" {
			return s, s.end()
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if !s.loaded || s.errMsg != "" || s.saving || s.ending || s.index >= len(s.cards) {
		return s, nil
	}

	if !s.revealed {
		if key == "space" || key == " " || key == "enter" {
			s.revealed = true
		}
		return s, nil
	}

	q, err := spacedrep.ParseQuality(key)
	if err != nil {
		return s, nil
	}
	return s, s.submit(q)
}

func (s *ReviewScreen) submit(q spacedrep.Quality) tea.Cmd {
	s.saving = true
	in := study.SubmitInput{
		CardID:    s.cards[s.index].ID,
		SessionID: s.session.ID,
		Quality:   q,
		TimeSpent: s.now().Sub(s.shownAt),
	}
	svc := s.svc
	return func() tea.Msg {
		res, err := svc.SubmitReview(context.Background(), in)
		return reviewedMsg{Result: res, Err: err}
	}
}

func (s *ReviewScreen) end() tea.Cmd {
	if s.ending {
		return nil
	}
	s.ending = true
	svc, id := s.svc, s.session.ID
	return func() tea.Msg {
		sess, err := svc.EndSession(context.Background(), id)
		return endedMsg{Session: sess, Err: err}
	}
}
