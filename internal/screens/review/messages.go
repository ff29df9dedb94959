package review

import (
	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/store"
	"github.com/abhisek/flashdeck/internal/study"
)

// loadedMsg carries the due cards and, when there are any, the session
// opened for them.
type loadedMsg struct {
	Session *store.Session
	Cards   []flashcard.Card
	Err     error
}

// reviewedMsg is sent when a rating has been persisted.
type reviewedMsg struct {
	Result *study.ReviewResult
	Err    error
}

// endedMsg is sent when the session has been closed.
type endedMsg struct {
	Session *store.Session
	Err     error
}
