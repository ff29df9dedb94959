package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/flashdeck/internal/flashcard"
)

var (
	// ErrNotFound is returned when a record does not exist, is soft-deleted
	// or belongs to another user.
	ErrNotFound = errors.New("not found")

	// ErrSessionClosed is returned when a review targets a session that has
	// already ended.
	ErrSessionClosed = errors.New("study session is closed")
)

const (
	DefaultDeckPageSize = 20
	DefaultCardPageSize = 50
)

// Pagination describes one page of a listing.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
}

func newPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// DeckQuery filters and pages a deck listing. Search matches title or
// description case-insensitively.
type DeckQuery struct {
	UserID   string
	Search   string
	Tag      string
	Category string
	Page     int
	PageSize int
}

// CardQuery pages the cards of one deck.
type CardQuery struct {
	UserID   string
	DeckID   string
	Page     int
	PageSize int
}

// DeckRepo persists decks.
type DeckRepo interface {
	Create(ctx context.Context, d *flashcard.Deck) error
	Get(ctx context.Context, userID, id string) (*flashcard.Deck, error)
	Update(ctx context.Context, d *flashcard.Deck) error

	// Delete soft-deletes the deck and every card in it.
	Delete(ctx context.Context, userID, id string, now time.Time) error

	List(ctx context.Context, q DeckQuery) ([]flashcard.Deck, Pagination, error)
}

// ReviewFunc computes the outcome of a review from the card's current
// state. It mutates c in place and returns the history row to record.
type ReviewFunc func(c *flashcard.Card) (*ReviewRecord, error)

// CardRepo persists cards and their scheduling state.
type CardRepo interface {
	// Create inserts the card and bumps its deck's card count.
	Create(ctx context.Context, c *flashcard.Card) error
	Get(ctx context.Context, userID, id string) (*flashcard.Card, error)

	// UpdateContent rewrites the question, answer and options of a card.
	UpdateContent(ctx context.Context, c *flashcard.Card) error

	// Delete soft-deletes the card and decrements its deck's card count.
	Delete(ctx context.Context, userID, id string, now time.Time) error

	List(ctx context.Context, q CardQuery) ([]flashcard.Card, Pagination, error)

	// SchedulableCards returns the non-deleted cards of a user (optionally
	// one deck) whose next review is missing or before dueBefore.
	SchedulableCards(ctx context.Context, userID, deckID string, dueBefore time.Time) ([]flashcard.Card, error)

	// SampleCards returns up to n random non-deleted cards of a deck.
	SampleCards(ctx context.Context, userID, deckID string, n int) ([]flashcard.Card, error)

	// ApplyReview loads the card, runs fn and stores the new schedule,
	// counters, history row and session counters in one transaction.
	ApplyReview(ctx context.Context, cardID, userID string, fn ReviewFunc) (*flashcard.Card, error)
}

// ReviewRecord is one row of review history.
type ReviewRecord struct {
	ID             string
	Sequence       int64
	UserID         string
	CardID         string
	DeckID         string
	SessionID      string
	Quality        int
	Correct        bool
	EaseBefore     float64
	EaseAfter      float64
	IntervalBefore int
	IntervalAfter  int
	TimeSpentMs    int64
	ReviewedAt     time.Time
}

// ReviewStats aggregates a user's review history.
type ReviewStats struct {
	Total   int
	Correct int
}

// ReviewRepo reads review history.
type ReviewRepo interface {
	ListByCard(ctx context.Context, userID, cardID string, limit int) ([]ReviewRecord, error)
	Stats(ctx context.Context, userID string) (ReviewStats, error)
}

// SessionMode distinguishes regular study from mock tests.
type SessionMode string

const (
	ModeStandard SessionMode = "standard"
	ModeExam     SessionMode = "exam"
)

// Session is a study or mock-test session.
type Session struct {
	ID               string
	UserID           string
	DeckID           string
	Mode             SessionMode
	StartTime        time.Time
	EndTime          *time.Time
	DurationSecs     int
	CardsReviewed    int
	CorrectAnswers   int
	IncorrectAnswers int
	Score            int
	TotalQuestions   int
	Active           bool
}

// SessionResult carries the values written when a session ends.
// Score and Answered apply to exam sessions only.
type SessionResult struct {
	EndTime      time.Time
	DurationSecs int
	Score        int
	Answered     int
}

// SessionRepo persists study sessions.
type SessionRepo interface {
	Create(ctx context.Context, s *Session) error
	Get(ctx context.Context, userID, id string) (*Session, error)

	// End closes an active session. Ending a closed session returns
	// ErrSessionClosed.
	End(ctx context.Context, userID, id string, res SessionResult) (*Session, error)

	// CompletedCount returns the number of ended sessions.
	CompletedCount(ctx context.Context, userID string) (int, error)

	// SecondsSince sums the duration of sessions that ended at or after since.
	SecondsSince(ctx context.Context, userID string, since time.Time) (int, error)

	Recent(ctx context.Context, userID string, limit int) ([]Session, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates LLM calls per purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates LLM tokens per model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns the event with id, or nil when it doesn't exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
