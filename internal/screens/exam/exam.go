package exam

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/mocktest"
	"github.com/abhisek/flashdeck/internal/router"
	"github.com/abhisek/flashdeck/internal/screen"
	"github.com/abhisek/flashdeck/internal/screens/summary"
	"github.com/abhisek/flashdeck/internal/store"
	"github.com/abhisek/flashdeck/internal/ui/components"
	"github.com/abhisek/flashdeck/internal/ui/layout"
	"github.com/abhisek/flashdeck/internal/ui/theme"
)

// Examiner is the part of the mock test service the screen drives.
type Examiner interface {
	Start(ctx context.Context, deckID string, count int) (*mocktest.Test, error)
	Submit(ctx context.Context, sessionID string, score, answered int) (*store.Session, error)
}

type startedMsg struct {
	Test *mocktest.Test
	Err  error
}

type submittedMsg struct {
	Session *store.Session
	Err     error
}

// ExamScreen runs a mock test: one question at a time, multiple choice
// where available and a typed answer otherwise, scored at the end.
type ExamScreen struct {
	svc       Examiner
	deckID    string
	deckTitle string
	count     int

	test     *mocktest.Test
	index    int
	score    int
	answered int
	choice   components.MultiChoice
	input    components.AnswerInput
	feedback bool
	correct  bool
	ending   bool
	errMsg   string
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.BackInterceptor = (*ExamScreen)(nil)

// New creates an exam over up to count random cards of the deck.
func New(svc Examiner, deckID, deckTitle string, count int) *ExamScreen {
	return &ExamScreen{svc: svc, deckID: deckID, deckTitle: deckTitle, count: count}
}

func (s *ExamScreen) Init() tea.Cmd {
	svc, deckID, count := s.svc, s.deckID, s.count
	return func() tea.Msg {
		t, err := svc.Start(context.Background(), deckID, count)
		return startedMsg{Test: t, Err: err}
	}
}

func (s *ExamScreen) Title() string {
	return "Mock Test: " + s.deckTitle
}

func (s *ExamScreen) InterceptsBack() bool {
	return true
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.test == nil:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case !s.onQuestion():
		return nil
	case s.feedback:
		return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Finish"}}
	case s.current().IsMCQ():
		return []layout.KeyHint{{Key: "1-9", Description: "Answer"}, {Key: "↑↓ Enter", Description: "Select"}, {Key: "Esc", Description: "Finish"}}
	}
	return []layout.KeyHint{{Key: "Enter", Description: "Submit"}, {Key: "Esc", Description: "Finish"}}
}

func (s *ExamScreen) current() flashcard.Card {
	return s.test.Questions[s.index]
}

// onQuestion reports whether a question is on screen, as opposed to
// loading or submitting.
func (s *ExamScreen) onQuestion() bool {
	return s.test != nil && s.index < len(s.test.Questions)
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.test = msg.Test
		return s, s.prepare()

	case submittedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		res := summary.FromSession(msg.Session, s.deckTitle)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: summary.New(res)} }

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.onQuestion() && !s.feedback && !s.current().IsMCQ() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// prepare sets up the answer widget for the current question.
func (s *ExamScreen) prepare() tea.Cmd {
	q := s.current()
	if q.IsMCQ() {
		s.choice = components.NewMultiChoice(q.Options, q.CorrectIndex)
		return nil
	}
	s.input = components.NewAnswerInput("Type your answer...", 200)
	return s.input.Init()
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		if s.test == nil || s.errMsg != "" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, s.finish()
	}
	if !s.onQuestion() || s.ending || s.errMsg != "" {
		return s, nil
	}

	if s.feedback {
		if msg.String() != "enter" {
			return s, nil
		}
		s.feedback = false
		s.index++
		if s.index >= len(s.test.Questions) {
			return s, s.finish()
		}
		return s, s.prepare()
	}

	if s.current().IsMCQ() {
		s.choice, _ = s.choice.Update(msg)
		if s.choice.Submitted {
			s.record(mocktest.Grade(s.current(), s.choice.ChosenIndex))
		}
		return s, nil
	}

	if msg.String() == "enter" {
		if s.input.Value() == "" {
			return s, nil
		}
		s.record(s.input.Submit(s.current().Answer))
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ExamScreen) record(correct bool) {
	s.answered++
	if correct {
		s.score++
	}
	s.correct = correct
	s.feedback = true
}

func (s *ExamScreen) finish() tea.Cmd {
	if s.ending {
		return nil
	}
	s.ending = true
	svc, id, score, answered := s.svc, s.test.Session.ID, s.score, s.answered
	return func() tea.Msg {
		sess, err := svc.Submit(context.Background(), id, score, answered)
		return submittedMsg{Session: sess, Err: err}
	}
}

func (s *ExamScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return layout.Message(theme.ErrorText, "Error: "+s.errMsg, width, height)
	case s.test == nil:
		return layout.Message(theme.Hint, "Preparing questions...", width, height)
	case s.index >= len(s.test.Questions):
		return layout.Message(theme.Hint, "Submitting...", width, height)
	}

	q := s.current()
	faceWidth := min(width-8, 70)

	var b strings.Builder
	b.WriteString(components.NewProgressBar(s.index, len(s.test.Questions), faceWidth).View())
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render(fmt.Sprintf("Score %d / %d", s.score, s.answered)))
	b.WriteString("\n\n")
	b.WriteString(theme.Question.Width(faceWidth).Render(q.Question))
	b.WriteString("\n\n")

	if q.IsMCQ() {
		b.WriteString(s.choice.View())
	} else {
		b.WriteString(s.input.View())
		if s.feedback {
			b.WriteString("\n\n" + theme.Answer.Width(faceWidth).Render(q.Answer))
		}
	}

	if s.feedback {
		b.WriteString("\n")
		if s.correct {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite."))
		}
	}

	return layout.Center(b.String(), width, height)
}
