// Package mocktest runs exam-mode sessions: a random sample of a deck's
// cards presented as multiple choice questions and scored at the end.
package mocktest

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/store"
	"github.com/abhisek/flashdeck/internal/study"
)

// DefaultQuestions is the question count used when none is given.
const DefaultQuestions = 20

var (
	ErrEmptyDeck     = errors.New("deck has no cards")
	ErrInvalidResult = errors.New("invalid test result")
)

// Converter turns plain cards into multiple choice questions. Cards that
// cannot be converted are returned unchanged.
type Converter interface {
	ConvertToMCQ(ctx context.Context, cards []flashcard.Card) []flashcard.Card
}

// Test is a started mock test.
type Test struct {
	Session   *store.Session
	Questions []flashcard.Card
}

// Service starts and scores mock tests.
type Service struct {
	decks     store.DeckRepo
	cards     store.CardRepo
	study     *study.Service
	converter Converter
	userID    string
	log       logrus.FieldLogger
}

// NewService creates a mock test service. converter may be nil, in which
// case plain cards are presented as they are.
func NewService(decks store.DeckRepo, cards store.CardRepo, st *study.Service, converter Converter, userID string, log logrus.FieldLogger) *Service {
	return &Service{decks: decks, cards: cards, study: st, converter: converter, userID: userID, log: log}
}

// Start samples up to count random cards of the deck, converts plain cards
// to multiple choice and opens an exam session sized to the sample.
func (s *Service) Start(ctx context.Context, deckID string, count int) (*Test, error) {
	if count <= 0 {
		count = DefaultQuestions
	}
	if _, err := s.decks.Get(ctx, s.userID, deckID); err != nil {
		return nil, err
	}

	cards, err := s.cards.SampleCards(ctx, s.userID, deckID, count)
	if err != nil {
		return nil, fmt.Errorf("sample cards: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrEmptyDeck
	}

	if s.converter != nil {
		cards = s.converter.ConvertToMCQ(ctx, cards)
	}

	sess, err := s.study.StartExam(ctx, deckID, len(cards))
	if err != nil {
		return nil, err
	}

	mcq := 0
	for i := range cards {
		if cards[i].IsMCQ() {
			mcq++
		}
	}
	s.log.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"questions":  len(cards),
		"mcq":        mcq,
	}).Info("mock test started")

	return &Test{Session: sess, Questions: cards}, nil
}

// Submit closes the exam session with the number of correct answers and
// the number of questions answered.
func (s *Service) Submit(ctx context.Context, sessionID string, score, answered int) (*store.Session, error) {
	if score < 0 || answered < 0 || score > answered {
		return nil, fmt.Errorf("%w: score %d of %d answered", ErrInvalidResult, score, answered)
	}
	return s.study.FinishExam(ctx, sessionID, score, answered)
}

// Grade reports whether choice is the correct option of q. Plain cards
// are never graded correct by index.
func Grade(q flashcard.Card, choice int) bool {
	return q.IsMCQ() && choice == q.CorrectIndex
}
