package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/spacedrep"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func seedDeck(t *testing.T, s *Store, id, title string, created time.Time) *flashcard.Deck {
	t.Helper()
	d := &flashcard.Deck{ID: id, UserID: "u1", Title: title, Tags: []string{"lang"}, CreatedAt: created, UpdatedAt: created}
	require.NoError(t, s.DeckRepo().Create(context.Background(), d))
	return d
}

func seedCard(t *testing.T, s *Store, id, deckID string, created time.Time) *flashcard.Card {
	t.Helper()
	c := flashcard.NewCard(id, deckID, "u1", flashcard.Draft{Question: "q " + id, Answer: "a"}, created)
	require.NoError(t, s.CardRepo().Create(context.Background(), c))
	return c
}

func TestDeckRepo_CRUD(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.DeckRepo()

	seedDeck(t, s, "d1", "Spanish", testNow)

	got, err := repo.Get(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "Spanish", got.Title)
	assert.Equal(t, []string{"lang"}, got.Tags)
	assert.True(t, got.CreatedAt.Equal(testNow))

	_, err = repo.Get(ctx, "someone-else", "d1")
	assert.ErrorIs(t, err, ErrNotFound)

	got.Title = "Spanish verbs"
	got.UpdatedAt = testNow.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, "Spanish verbs", got.Title)

	assert.ErrorIs(t, repo.Update(ctx, &flashcard.Deck{ID: "missing", UserID: "u1"}), ErrNotFound)
}

func TestDeckRepo_DeleteCascadesToCards(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seedDeck(t, s, "d1", "Spanish", testNow)
	seedCard(t, s, "c1", "d1", testNow)
	seedCard(t, s, "c2", "d1", testNow)

	require.NoError(t, s.DeckRepo().Delete(ctx, "u1", "d1", testNow))

	_, err := s.DeckRepo().Get(ctx, "u1", "d1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.CardRepo().Get(ctx, "u1", "c1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.DeckRepo().Delete(ctx, "u1", "d1", testNow), ErrNotFound)
}

func TestDeckRepo_ListFiltersAndPages(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		seedDeck(t, s, fmt.Sprintf("d%02d", i), fmt.Sprintf("Deck %02d", i), testNow.Add(time.Duration(i)*time.Minute))
	}
	extra := &flashcard.Deck{ID: "go", UserID: "u1", Title: "Golang", Description: "concurrency", Tags: []string{"programming"}, Category: "tech", CreatedAt: testNow, UpdatedAt: testNow}
	require.NoError(t, s.DeckRepo().Create(ctx, extra))

	decks, page, err := s.DeckRepo().List(ctx, DeckQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, decks, DefaultDeckPageSize)
	assert.Equal(t, Pagination{Page: 1, Limit: 20, Total: 26, TotalPages: 2}, page)
	assert.Equal(t, "d24", decks[0].ID, "newest first")

	decks, _, err = s.DeckRepo().List(ctx, DeckQuery{UserID: "u1", Page: 2})
	require.NoError(t, err)
	assert.Len(t, decks, 6)

	decks, _, err = s.DeckRepo().List(ctx, DeckQuery{UserID: "u1", Search: "CONCUR"})
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "go", decks[0].ID)

	decks, _, err = s.DeckRepo().List(ctx, DeckQuery{UserID: "u1", Tag: "programming"})
	require.NoError(t, err)
	assert.Len(t, decks, 1)

	decks, _, err = s.DeckRepo().List(ctx, DeckQuery{UserID: "u1", Category: "tech"})
	require.NoError(t, err)
	assert.Len(t, decks, 1)

	decks, _, err = s.DeckRepo().List(ctx, DeckQuery{UserID: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, decks)
}

func TestCardRepo_CreateMaintainsCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	seedDeck(t, s, "d1", "Spanish", testNow)
	seedCard(t, s, "c1", "d1", testNow)
	seedCard(t, s, "c2", "d1", testNow)

	d, err := s.DeckRepo().Get(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, d.CardCount)

	require.NoError(t, s.CardRepo().Delete(ctx, "u1", "c1", testNow))
	d, err = s.DeckRepo().Get(ctx, "u1", "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, d.CardCount)

	assert.ErrorIs(t, s.CardRepo().Delete(ctx, "u1", "c1", testNow), ErrNotFound)

	err = s.CardRepo().Create(ctx, flashcard.NewCard("c3", "missing", "u1", flashcard.Draft{Question: "q", Answer: "a"}, testNow))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCardRepo_RoundTripsMCQ(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedDeck(t, s, "d1", "Geo", testNow)

	c := flashcard.NewCard("c1", "d1", "u1", flashcard.Draft{
		Question: "Capital of France?", Type: flashcard.TypeMCQ,
		Options: []string{"Berlin", "Paris"}, CorrectIndex: 1,
	}, testNow)
	require.NoError(t, s.CardRepo().Create(ctx, c))

	got, err := s.CardRepo().Get(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, flashcard.TypeMCQ, got.Type)
	assert.Equal(t, []string{"Berlin", "Paris"}, got.Options)
	assert.Equal(t, "Paris", got.Answer)
	assert.Equal(t, 2.5, got.Schedule.EaseFactor)
	assert.True(t, got.Schedule.NextReview.Equal(testNow))
	assert.Nil(t, got.LastReviewed)
}

func TestCardRepo_ListPages(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedDeck(t, s, "d1", "Big", testNow)
	for i := 0; i < 55; i++ {
		seedCard(t, s, fmt.Sprintf("c%02d", i), "d1", testNow.Add(time.Duration(i)*time.Second))
	}

	cards, page, err := s.CardRepo().List(ctx, CardQuery{UserID: "u1", DeckID: "d1"})
	require.NoError(t, err)
	assert.Len(t, cards, DefaultCardPageSize)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, "c54", cards[0].ID)
}

func TestCardRepo_SchedulableCards(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedDeck(t, s, "d1", "A", testNow)
	seedDeck(t, s, "d2", "B", testNow)

	seedCard(t, s, "past", "d1", testNow.AddDate(0, 0, -2))
	future := flashcard.NewCard("future", "d1", "u1", flashcard.Draft{Question: "q", Answer: "a"}, testNow.AddDate(0, 0, 5))
	require.NoError(t, s.CardRepo().Create(ctx, future))
	seedCard(t, s, "other", "d2", testNow)

	tomorrow := spacedrep.AddDays(testNow, 1)
	all, err := s.CardRepo().SchedulableCards(ctx, "u1", "", tomorrow)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"past", "other"}, cardIDs(all))

	one, err := s.CardRepo().SchedulableCards(ctx, "u1", "d1", tomorrow)
	require.NoError(t, err)
	assert.Equal(t, []string{"past"}, cardIDs(one))
}

func TestCardRepo_SampleCards(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedDeck(t, s, "d1", "A", testNow)
	for i := 0; i < 8; i++ {
		seedCard(t, s, fmt.Sprintf("c%d", i), "d1", testNow)
	}

	got, err := s.CardRepo().SampleCards(ctx, "u1", "d1", 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)

	got, err = s.CardRepo().SampleCards(ctx, "u1", "d1", 20)
	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func reviewWith(q spacedrep.Quality, sessionID string, now time.Time) ReviewFunc {
	return func(c *flashcard.Card) (*ReviewRecord, error) {
		before := c.Schedule
		next, err := spacedrep.Next(before, q, now)
		if err != nil {
			return nil, err
		}
		c.ApplyReview(next, q.IsCorrect(), now)
		return &ReviewRecord{
			ID:             fmt.Sprintf("r-%d-%d", now.UnixNano(), c.ReviewCount),
			SessionID:      sessionID,
			Quality:        int(q),
			Correct:        q.IsCorrect(),
			EaseBefore:     before.EaseFactor,
			EaseAfter:      next.EaseFactor,
			IntervalBefore: before.Interval,
			IntervalAfter:  next.Interval,
			ReviewedAt:     now,
		}, nil
	}
}

func TestCardRepo_ApplyReviewPersistsAtomically(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedDeck(t, s, "d1", "A", testNow)
	seedCard(t, s, "c1", "d1", testNow)

	sess := &Session{ID: "s1", UserID: "u1", DeckID: "d1", Mode: ModeStandard, StartTime: testNow, Active: true}
	require.NoError(t, s.SessionRepo().Create(ctx, sess))

	got, err := s.CardRepo().ApplyReview(ctx, "c1", "u1", reviewWith(spacedrep.Perfect, "s1", testNow))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Schedule.Interval)

	stored, err := s.CardRepo().Get(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.InDelta(t, 2.6, stored.Schedule.EaseFactor, 1e-9)
	assert.Equal(t, 1, stored.Schedule.Repetitions)
	assert.True(t, stored.Schedule.NextReview.Equal(spacedrep.AddDays(testNow, 1)))
	assert.Equal(t, 1, stored.CorrectCount)
	require.NotNil(t, stored.LastReviewed)

	history, err := s.ReviewRepo().ListByCard(ctx, "u1", "c1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "d1", history[0].DeckID)
	assert.Equal(t, 5, history[0].Quality)

	st, err := s.SessionRepo().Get(ctx, "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, st.CardsReviewed)
	assert.Equal(t, 1, st.CorrectAnswers)
}

func TestCardRepo_ApplyReviewRollsBackOnClosedSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedDeck(t, s, "d1", "A", testNow)
	seedCard(t, s, "c1", "d1", testNow)

	require.NoError(t, s.SessionRepo().Create(ctx, &Session{ID: "s1", UserID: "u1", Mode: ModeStandard, StartTime: testNow, Active: true}))
	_, err := s.SessionRepo().End(ctx, "u1", "s1", SessionResult{EndTime: testNow, DurationSecs: 1})
	require.NoError(t, err)

	_, err = s.CardRepo().ApplyReview(ctx, "c1", "u1", reviewWith(spacedrep.Perfect, "s1", testNow))
	assert.ErrorIs(t, err, ErrSessionClosed)

	stored, err := s.CardRepo().Get(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ReviewCount, "card must be untouched")

	st, err := s.ReviewRepo().Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, st.Total)
}

func TestCardRepo_ConcurrentReviewsDoNotLoseUpdates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedDeck(t, s, "d1", "A", testNow)
	seedCard(t, s, "c1", "d1", testNow)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.CardRepo().ApplyReview(ctx, "c1", "u1", reviewWith(spacedrep.Effortful, "", testNow.Add(time.Duration(i)*time.Millisecond)))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := s.CardRepo().Get(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, n, stored.ReviewCount)
	assert.Equal(t, n, stored.Schedule.Repetitions)

	st, err := s.ReviewRepo().Stats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, ReviewStats{Total: n, Correct: n}, st)
}

func TestSessionRepo_EndAndAggregates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.SessionRepo()

	require.NoError(t, repo.Create(ctx, &Session{ID: "s1", UserID: "u1", Mode: ModeStandard, StartTime: testNow, Active: true}))
	require.NoError(t, repo.Create(ctx, &Session{ID: "s2", UserID: "u1", Mode: ModeExam, StartTime: testNow.Add(time.Hour), TotalQuestions: 10, Active: true}))

	ended, err := repo.End(ctx, "u1", "s1", SessionResult{EndTime: testNow.Add(10 * time.Minute), DurationSecs: 600})
	require.NoError(t, err)
	assert.False(t, ended.Active)
	assert.Equal(t, 600, ended.DurationSecs)

	_, err = repo.End(ctx, "u1", "s1", SessionResult{EndTime: testNow})
	assert.ErrorIs(t, err, ErrSessionClosed)

	exam, err := repo.End(ctx, "u1", "s2", SessionResult{EndTime: testNow.Add(2 * time.Hour), DurationSecs: 300, Score: 7, Answered: 9})
	require.NoError(t, err)
	assert.Equal(t, 7, exam.Score)
	assert.Equal(t, 9, exam.CardsReviewed)
	assert.Equal(t, 10, exam.TotalQuestions)

	n, err := repo.CompletedCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	secs, err := repo.SecondsSince(ctx, "u1", testNow.Add(30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 300, secs)

	recent, err := repo.Recent(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "s2", recent[0].ID)
	assert.Equal(t, ModeExam, recent[0].Mode)

	_, err = repo.Get(ctx, "u2", "s1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEventRepo_LLMUsage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "card-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "anthropic", Model: "claude-sonnet-4-5", Purpose: "card-gen", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "mcq-convert", InputTokens: 10, OutputTokens: 5, LatencyMs: 30, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	list, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "mcq-convert", list[0].Purpose, "newest first")
	assert.Greater(t, list[0].Sequence, list[1].Sequence)

	filtered, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "card-gen"})
	require.NoError(t, err)
	assert.Len(t, filtered, 2)

	one, err := repo.GetLLMEvent(ctx, list[0].ID)
	require.NoError(t, err)
	require.NotNil(t, one)
	assert.Equal(t, "boom", one.ErrorMessage)

	missing, err := repo.GetLLMEvent(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, LLMUsageStats{Purpose: "card-gen", Calls: 2, InputTokens: 400, OutputTokens: 200, AvgLatencyMs: 300}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1, "failed calls are excluded from cost")
	assert.Equal(t, "claude-sonnet-4-5", byModel[0].Model)
}

func cardIDs(cards []flashcard.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}
