// Package study runs review sessions: it picks due cards, schedules each
// answer with SM-2 and keeps session and history bookkeeping.
package study

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/flashdeck/internal/due"
	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/spacedrep"
	"github.com/abhisek/flashdeck/internal/store"
)

// ErrSessionClosed is returned when reviewing into or ending a finished session.
var ErrSessionClosed = store.ErrSessionClosed

// Repos groups the repositories the service reads and writes.
type Repos struct {
	Decks    store.DeckRepo
	Cards    store.CardRepo
	Sessions store.SessionRepo
	Reviews  store.ReviewRepo
}

// Options configures a Service.
type Options struct {
	UserID   string
	DueLimit int
	Location *time.Location
}

// Service implements the study workflow for one user.
type Service struct {
	repos    Repos
	userID   string
	dueLimit int
	loc      *time.Location
	log      logrus.FieldLogger

	// Now is the service clock. Tests replace it.
	Now func() time.Time
}

// NewService creates a study service.
func NewService(repos Repos, opts Options, log logrus.FieldLogger) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repos:    repos,
		userID:   opts.UserID,
		dueLimit: opts.DueLimit,
		loc:      loc,
		log:      log,
		Now:      time.Now,
	}
}

// now returns the clock reading in the configured timezone; calendar days
// for scheduling are taken from it.
func (s *Service) now() time.Time {
	return s.Now().In(s.loc)
}

// LocalNow returns the current time in the configured timezone. Day counts
// shown next to due cards must be taken from it.
func (s *Service) LocalNow() time.Time {
	return s.now()
}

// StartSession opens a standard study session. An empty deckID studies
// across all decks; otherwise the deck must exist.
func (s *Service) StartSession(ctx context.Context, deckID string) (*store.Session, error) {
	return s.start(ctx, deckID, store.ModeStandard, 0)
}

// StartExam opens an exam session over total questions from one deck.
func (s *Service) StartExam(ctx context.Context, deckID string, total int) (*store.Session, error) {
	if deckID == "" {
		return nil, fmt.Errorf("exam: %w", store.ErrNotFound)
	}
	return s.start(ctx, deckID, store.ModeExam, total)
}

func (s *Service) start(ctx context.Context, deckID string, mode store.SessionMode, total int) (*store.Session, error) {
	if deckID != "" {
		if _, err := s.repos.Decks.Get(ctx, s.userID, deckID); err != nil {
			return nil, err
		}
	}

	sess := &store.Session{
		ID:             uuid.NewString(),
		UserID:         s.userID,
		DeckID:         deckID,
		Mode:           mode,
		StartTime:      s.now(),
		TotalQuestions: total,
		Active:         true,
	}
	if err := s.repos.Sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s.log.WithFields(logrus.Fields{"session_id": sess.ID, "deck_id": deckID, "mode": mode}).Info("session started")
	return sess, nil
}

// SubmitInput is one answered card.
type SubmitInput struct {
	CardID    string
	SessionID string // optional
	Quality   spacedrep.Quality
	TimeSpent time.Duration
}

// ReviewResult reports the schedule change caused by a review.
type ReviewResult struct {
	Card     *flashcard.Card
	Previous spacedrep.State
	Next     spacedrep.State
	Correct  bool
}

// SubmitReview schedules the card with SM-2 and persists the new state,
// the history row and the session counters atomically. Invalid quality is
// rejected before storage is touched.
func (s *Service) SubmitReview(ctx context.Context, in SubmitInput) (*ReviewResult, error) {
	if !in.Quality.IsValid() {
		return nil, fmt.Errorf("%w: got %d", spacedrep.ErrInvalidQuality, int(in.Quality))
	}

	now := s.now()
	res := &ReviewResult{Correct: in.Quality.IsCorrect()}

	card, err := s.repos.Cards.ApplyReview(ctx, in.CardID, s.userID, func(c *flashcard.Card) (*store.ReviewRecord, error) {
		prev := c.Schedule
		next, err := spacedrep.Next(prev, in.Quality, now)
		if err != nil {
			return nil, err
		}
		c.ApplyReview(next, res.Correct, now)
		res.Previous, res.Next = prev, next

		return &store.ReviewRecord{
			ID:             uuid.NewString(),
			SessionID:      in.SessionID,
			Quality:        int(in.Quality),
			Correct:        res.Correct,
			EaseBefore:     prev.EaseFactor,
			EaseAfter:      next.EaseFactor,
			IntervalBefore: prev.Interval,
			IntervalAfter:  next.Interval,
			TimeSpentMs:    in.TimeSpent.Milliseconds(),
			ReviewedAt:     now,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	res.Card = card

	s.log.WithFields(logrus.Fields{
		"card_id":    in.CardID,
		"session_id": in.SessionID,
		"quality":    int(in.Quality),
		"interval":   res.Next.Interval,
	}).Debug("card reviewed")
	return res, nil
}

// EndSession closes a session and records its duration in whole seconds.
func (s *Service) EndSession(ctx context.Context, sessionID string) (*store.Session, error) {
	return s.end(ctx, sessionID, 0, 0)
}

// FinishExam closes an exam session with its score and the number of
// questions answered.
func (s *Service) FinishExam(ctx context.Context, sessionID string, score, answered int) (*store.Session, error) {
	return s.end(ctx, sessionID, score, answered)
}

func (s *Service) end(ctx context.Context, sessionID string, score, answered int) (*store.Session, error) {
	sess, err := s.repos.Sessions.Get(ctx, s.userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Active {
		return nil, ErrSessionClosed
	}

	end := s.now()
	dur := int(end.Sub(sess.StartTime) / time.Second)
	if dur < 0 {
		dur = 0
	}
	ended, err := s.repos.Sessions.End(ctx, s.userID, sessionID, store.SessionResult{
		EndTime:      end,
		DurationSecs: dur,
		Score:        score,
		Answered:     answered,
	})
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"session_id": sessionID, "duration_secs": dur}).Info("session ended")
	return ended, nil
}

// DueCards returns the cards due now, most overdue first, capped at the
// configured limit. An empty deckID covers all decks.
func (s *Service) DueCards(ctx context.Context, deckID string) ([]flashcard.Card, error) {
	if deckID != "" {
		if _, err := s.repos.Decks.Get(ctx, s.userID, deckID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	candidates, err := s.repos.Cards.SchedulableCards(ctx, s.userID, deckID, spacedrep.AddDays(now, 1))
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	return due.Select(candidates, now, due.Options{
		UserID: s.userID,
		DeckID: deckID,
		Limit:  s.dueLimit,
	}), nil
}

// DeckDue summarizes the due workload of one deck.
type DeckDue struct {
	DeckID string
	Title  string
	Cards  int
	Due    int
}

// Analytics aggregates a user's study history.
type Analytics struct {
	CompletedSessions int
	MinutesToday      int
	TotalReviews      int
	Accuracy          int
	Decks             []DeckDue
}

// Analytics computes lifetime and today's study statistics plus the due
// count of every deck.
func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	now := s.now()
	a := &Analytics{}

	var err error
	if a.CompletedSessions, err = s.repos.Sessions.CompletedCount(ctx, s.userID); err != nil {
		return nil, err
	}
	secs, err := s.repos.Sessions.SecondsSince(ctx, s.userID, spacedrep.StartOfDay(now))
	if err != nil {
		return nil, err
	}
	a.MinutesToday = secs / 60

	rs, err := s.repos.Reviews.Stats(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	a.TotalReviews = rs.Total
	if rs.Total > 0 {
		a.Accuracy = int(math.Round(float64(rs.Correct) / float64(rs.Total) * 100))
	}

	candidates, err := s.repos.Cards.SchedulableCards(ctx, s.userID, "", spacedrep.AddDays(now, 1))
	if err != nil {
		return nil, err
	}
	dueByDeck := make(map[string]int)
	for _, c := range candidates {
		if due.IsDue(c, now) {
			dueByDeck[c.DeckID]++
		}
	}

	for page := 1; ; page++ {
		decks, p, err := s.repos.Decks.List(ctx, store.DeckQuery{UserID: s.userID, Page: page})
		if err != nil {
			return nil, err
		}
		for _, d := range decks {
			a.Decks = append(a.Decks, DeckDue{DeckID: d.ID, Title: d.Title, Cards: d.CardCount, Due: dueByDeck[d.ID]})
		}
		if page >= p.TotalPages {
			break
		}
	}
	return a, nil
}

// RecentSessions returns the latest sessions, newest first.
func (s *Service) RecentSessions(ctx context.Context, limit int) ([]store.Session, error) {
	return s.repos.Sessions.Recent(ctx, s.userID, limit)
}
