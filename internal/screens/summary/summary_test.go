package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashdeck/internal/router"
	"github.com/abhisek/flashdeck/internal/store"
)

func testResult() Result {
	return Result{
		DeckTitle: "Spanish",
		Mode:      store.ModeStandard,
		Reviewed:  14,
		Correct:   11,
		Duration:  15*time.Minute + 7*time.Second,
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	if got := New(testResult()).Title(); got != "Session Summary" {
		t.Errorf("Title = %q", got)
	}
	exam := testResult()
	exam.Mode = store.ModeExam
	if got := New(exam).Title(); got != "Test Result" {
		t.Errorf("Title = %q", got)
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := New(testResult()).View(80, 24)
	for _, want := range []string{"Session complete!", "Spanish", "15:07", "Cards 14", "Accuracy 79%"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFromSession_Exam(t *testing.T) {
	r := FromSession(&store.Session{Mode: store.ModeExam, CardsReviewed: 8, Score: 6, DurationSecs: 95}, "Go")
	if r.Correct != 6 || r.Reviewed != 8 || r.Duration != 95*time.Second {
		t.Errorf("result = %+v", r)
	}
	if view := New(r).View(80, 24); !strings.Contains(view, "Score 6 / 8") {
		t.Errorf("view = %q", view)
	}
}

func TestResult_AccuracyEmpty(t *testing.T) {
	if (Result{}).Accuracy() != 0 {
		t.Error("expected 0 accuracy with no answers")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	s := New(testResult())
	for _, code := range []rune{tea.KeyEnter, tea.KeyEscape} {
		_, cmd := s.Update(tea.KeyPressMsg{Code: code})
		if cmd == nil {
			t.Fatal("expected pop command")
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("expected PopScreenMsg for key %v", code)
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	if len(New(testResult()).KeyHints()) != 2 {
		t.Error("expected 2 key hints")
	}
}
