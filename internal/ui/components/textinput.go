package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/flashdeck/internal/ui/theme"
)

// AnswerInput is a single-line text field for typed answers.
type AnswerInput struct {
	Model     textinput.Model
	submitted bool
	correct   bool
}

// NewAnswerInput creates a focused input.
func NewAnswerInput(placeholder string, limit int) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return AnswerInput{Model: ti}
}

// Init starts the cursor blink.
func (a AnswerInput) Init() tea.Cmd {
	return a.Model.Focus()
}

// Update forwards editing keys to the text field until submission.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if a.submitted {
		return a, nil
	}
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the field and, after submission, a check mark or cross.
func (a AnswerInput) View() string {
	view := a.Model.View()
	if a.submitted {
		if a.correct {
			view += " " + theme.Correct.Render("✓")
		} else {
			view += " " + theme.Incorrect.Render("✗")
		}
	}
	return view
}

// Value returns the trimmed input.
func (a AnswerInput) Value() string {
	return strings.TrimSpace(a.Model.Value())
}

// Submit grades the input against want, ignoring case and surrounding
// whitespace, and freezes the field.
func (a *AnswerInput) Submit(want string) bool {
	a.submitted = true
	a.correct = strings.EqualFold(a.Value(), strings.TrimSpace(want))
	return a.correct
}

// Submitted reports whether Submit has been called.
func (a AnswerInput) Submitted() bool {
	return a.submitted
}
