// Package decks manages a user's decks and the cards inside them.
package decks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/store"
)

// Service is scoped to a single user; records of other users are
// reported as store.ErrNotFound.
type Service struct {
	decks  store.DeckRepo
	cards  store.CardRepo
	userID string
	log    logrus.FieldLogger

	// Now is the service clock. Tests replace it.
	Now func() time.Time
}

// NewService creates a deck service for userID.
func NewService(decks store.DeckRepo, cards store.CardRepo, userID string, log logrus.FieldLogger) *Service {
	return &Service{
		decks:  decks,
		cards:  cards,
		userID: userID,
		log:    log,
		Now:    time.Now,
	}
}

// CreateDeck validates in and stores a new empty deck.
func (s *Service) CreateDeck(ctx context.Context, in flashcard.DeckInput) (*flashcard.Deck, error) {
	in = in.Normalize()
	if err := flashcard.ValidateDeck(in); err != nil {
		return nil, err
	}

	now := s.Now()
	d := &flashcard.Deck{
		ID:          uuid.NewString(),
		UserID:      s.userID,
		Title:       in.Title,
		Description: in.Description,
		Tags:        in.Tags,
		Category:    in.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.decks.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create deck: %w", err)
	}
	s.log.WithField("deck_id", d.ID).Info("deck created")
	return d, nil
}

// GetDeck returns one of the user's decks.
func (s *Service) GetDeck(ctx context.Context, id string) (*flashcard.Deck, error) {
	return s.decks.Get(ctx, s.userID, id)
}

// UpdateDeck replaces the editable fields of a deck.
func (s *Service) UpdateDeck(ctx context.Context, id string, in flashcard.DeckInput) (*flashcard.Deck, error) {
	in = in.Normalize()
	if err := flashcard.ValidateDeck(in); err != nil {
		return nil, err
	}

	d, err := s.decks.Get(ctx, s.userID, id)
	if err != nil {
		return nil, err
	}
	d.Title = in.Title
	d.Description = in.Description
	d.Tags = in.Tags
	d.Category = in.Category
	d.UpdatedAt = s.Now()

	if err := s.decks.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("update deck: %w", err)
	}
	return d, nil
}

// DeleteDeck soft-deletes a deck together with its cards.
func (s *Service) DeleteDeck(ctx context.Context, id string) error {
	if err := s.decks.Delete(ctx, s.userID, id, s.Now()); err != nil {
		return err
	}
	s.log.WithField("deck_id", id).Info("deck deleted")
	return nil
}

// ListDecks pages through the user's decks, newest first.
func (s *Service) ListDecks(ctx context.Context, q store.DeckQuery) ([]flashcard.Deck, store.Pagination, error) {
	q.UserID = s.userID
	return s.decks.List(ctx, q)
}

// CreateCard validates the draft and adds a card, due immediately, to a deck.
func (s *Service) CreateCard(ctx context.Context, deckID string, d flashcard.Draft) (*flashcard.Card, error) {
	d = d.Normalize()
	if err := flashcard.ValidateDraft(d); err != nil {
		return nil, err
	}

	c := flashcard.NewCard(uuid.NewString(), deckID, s.userID, d, s.Now())
	if err := s.cards.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"deck_id": deckID, "card_id": c.ID}).Debug("card created")
	return c, nil
}

// GetCard returns one of the user's cards.
func (s *Service) GetCard(ctx context.Context, id string) (*flashcard.Card, error) {
	return s.cards.Get(ctx, s.userID, id)
}

// UpdateCard replaces a card's content. Its schedule is left untouched.
func (s *Service) UpdateCard(ctx context.Context, id string, d flashcard.Draft) (*flashcard.Card, error) {
	d = d.Normalize()
	if err := flashcard.ValidateDraft(d); err != nil {
		return nil, err
	}

	c, err := s.cards.Get(ctx, s.userID, id)
	if err != nil {
		return nil, err
	}
	c.Question = d.Question
	c.Answer = d.Answer
	c.Type = d.Type
	c.Options = d.Options
	c.CorrectIndex = d.CorrectIndex
	c.UpdatedAt = s.Now()

	if err := s.cards.UpdateContent(ctx, c); err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}
	return c, nil
}

// DeleteCard soft-deletes a card.
func (s *Service) DeleteCard(ctx context.Context, id string) error {
	return s.cards.Delete(ctx, s.userID, id, s.Now())
}

// ListCards pages through the cards of one deck, newest first.
func (s *Service) ListCards(ctx context.Context, deckID string, page, pageSize int) ([]flashcard.Card, store.Pagination, error) {
	if _, err := s.decks.Get(ctx, s.userID, deckID); err != nil {
		return nil, store.Pagination{}, err
	}
	return s.cards.List(ctx, store.CardQuery{
		UserID:   s.userID,
		DeckID:   deckID,
		Page:     page,
		PageSize: pageSize,
	})
}

// ImportCards validates every draft and adds the valid ones to a deck.
// It returns the created cards and the number of drafts rejected.
func (s *Service) ImportCards(ctx context.Context, deckID string, drafts []flashcard.Draft) ([]flashcard.Card, int, error) {
	var (
		created  []flashcard.Card
		rejected int
	)
	for _, d := range drafts {
		c, err := s.CreateCard(ctx, deckID, d)
		if err != nil {
			if isValidation(err) {
				rejected++
				s.log.WithError(err).WithField("deck_id", deckID).Debug("draft rejected")
				continue
			}
			return created, rejected, err
		}
		created = append(created, *c)
	}
	return created, rejected, nil
}

func isValidation(err error) bool {
	return errors.Is(err, flashcard.ErrInvalidCard) || errors.Is(err, flashcard.ErrInvalidDeck)
}
