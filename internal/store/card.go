package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/flashdeck/internal/flashcard"
)

var cardColumns = []string{
	"id", "deck_id", "user_id", "question", "answer", "card_type", "options",
	"correct_index", "ease_factor", "interval_days", "repetitions", "next_review",
	"last_reviewed", "review_count", "correct_count", "incorrect_count",
	"deleted", "created_at", "updated_at",
}

type cardRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *cardRepo) Create(ctx context.Context, c *flashcard.Card) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := exec(ctx, tx, sqlb.Update(DecksTable.Name).
			Add("card_count", 1).
			Set("updated_at", dbTime(c.UpdatedAt)).
			Where(entsql.And(
				entsql.EQ("id", c.DeckID),
				entsql.EQ("user_id", c.UserID),
				entsql.EQ("deleted", false),
			)))
		if err != nil {
			return fmt.Errorf("bump card count: %w", err)
		}
		if err := affectedOne(res); err != nil {
			return fmt.Errorf("deck %s: %w", c.DeckID, err)
		}

		var next any
		if c.Schedule.HasNextReview() {
			next = dbTime(c.Schedule.NextReview)
		}
		ins := sqlb.Insert(CardsTable.Name).
			Columns(cardColumns...).
			Values(c.ID, c.DeckID, c.UserID, c.Question, c.Answer, string(c.Type),
				encodeStrings(c.Options), c.CorrectIndex, c.Schedule.EaseFactor,
				c.Schedule.Interval, c.Schedule.Repetitions, next, nullTime(c.LastReviewed),
				c.ReviewCount, c.CorrectCount, c.IncorrectCount, c.Deleted,
				dbTime(c.CreatedAt), dbTime(c.UpdatedAt))
		if _, err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		return nil
	})
}

func (r *cardRepo) Get(ctx context.Context, userID, id string) (*flashcard.Card, error) {
	return getCard(ctx, r.db, userID, id)
}

func getCard(ctx context.Context, q querier, userID, id string) (*flashcard.Card, error) {
	sel := sqlb.Select(cardColumns...).From(sqlb.Table(CardsTable.Name)).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("user_id", userID),
			entsql.EQ("deleted", false),
		))
	c, err := scanCard(queryRow(ctx, q, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get card: %w", err)
	}
	return c, nil
}

func (r *cardRepo) UpdateContent(ctx context.Context, c *flashcard.Card) error {
	upd := sqlb.Update(CardsTable.Name).
		Set("question", c.Question).
		Set("answer", c.Answer).
		Set("card_type", string(c.Type)).
		Set("options", encodeStrings(c.Options)).
		Set("correct_index", c.CorrectIndex).
		Set("updated_at", dbTime(c.UpdatedAt)).
		Where(entsql.And(
			entsql.EQ("id", c.ID),
			entsql.EQ("user_id", c.UserID),
			entsql.EQ("deleted", false),
		))
	res, err := exec(ctx, r.db, upd)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	return affectedOne(res)
}

func (r *cardRepo) Delete(ctx context.Context, userID, id string, now time.Time) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		c, err := getCard(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		_, err = exec(ctx, tx, sqlb.Update(CardsTable.Name).
			Set("deleted", true).
			Set("updated_at", dbTime(now)).
			Where(entsql.EQ("id", id)))
		if err != nil {
			return fmt.Errorf("delete card: %w", err)
		}
		_, err = exec(ctx, tx, sqlb.Update(DecksTable.Name).
			Add("card_count", -1).
			Set("updated_at", dbTime(now)).
			Where(entsql.And(
				entsql.EQ("id", c.DeckID),
				entsql.GT("card_count", 0),
			)))
		if err != nil {
			return fmt.Errorf("drop card count: %w", err)
		}
		return nil
	})
}

func (r *cardRepo) List(ctx context.Context, q CardQuery) ([]flashcard.Card, Pagination, error) {
	page, size := pageBounds(q.Page, q.PageSize, DefaultCardPageSize)

	where := entsql.And(
		entsql.EQ("user_id", q.UserID),
		entsql.EQ("deck_id", q.DeckID),
		entsql.EQ("deleted", false),
	)
	total, err := count(ctx, r.db, CardsTable.Name, where)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("count cards: %w", err)
	}

	cards, err := r.selectCards(ctx, sqlb.Select(cardColumns...).From(sqlb.Table(CardsTable.Name)).
		Where(where).
		OrderBy(entsql.Desc("created_at"), entsql.Asc("id")).
		Limit(size).
		Offset((page-1)*size))
	if err != nil {
		return nil, Pagination{}, err
	}
	return cards, newPagination(page, size, total), nil
}

func (r *cardRepo) SchedulableCards(ctx context.Context, userID, deckID string, dueBefore time.Time) ([]flashcard.Card, error) {
	preds := []*entsql.Predicate{
		entsql.EQ("user_id", userID),
		entsql.EQ("deleted", false),
		entsql.Or(
			entsql.IsNull("next_review"),
			entsql.LT("next_review", dbTime(dueBefore)),
		),
	}
	if deckID != "" {
		preds = append(preds, entsql.EQ("deck_id", deckID))
	}
	return r.selectCards(ctx, sqlb.Select(cardColumns...).From(sqlb.Table(CardsTable.Name)).
		Where(entsql.And(preds...)))
}

func (r *cardRepo) SampleCards(ctx context.Context, userID, deckID string, n int) ([]flashcard.Card, error) {
	if n <= 0 {
		return nil, nil
	}
	return r.selectCards(ctx, sqlb.Select(cardColumns...).From(sqlb.Table(CardsTable.Name)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("deck_id", deckID),
			entsql.EQ("deleted", false),
		)).
		OrderBy("RANDOM()").
		Limit(n))
}

func (r *cardRepo) ApplyReview(ctx context.Context, cardID, userID string, fn ReviewFunc) (*flashcard.Card, error) {
	var card *flashcard.Card
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		c, err := getCard(ctx, tx, userID, cardID)
		if err != nil {
			return err
		}

		rec, err := fn(c)
		if err != nil {
			return err
		}

		var next any
		if c.Schedule.HasNextReview() {
			next = dbTime(c.Schedule.NextReview)
		}
		_, err = exec(ctx, tx, sqlb.Update(CardsTable.Name).
			Set("ease_factor", c.Schedule.EaseFactor).
			Set("interval_days", c.Schedule.Interval).
			Set("repetitions", c.Schedule.Repetitions).
			Set("next_review", next).
			Set("last_reviewed", nullTime(c.LastReviewed)).
			Set("review_count", c.ReviewCount).
			Set("correct_count", c.CorrectCount).
			Set("incorrect_count", c.IncorrectCount).
			Set("updated_at", dbTime(c.UpdatedAt)).
			Where(entsql.EQ("id", c.ID)))
		if err != nil {
			return fmt.Errorf("update card schedule: %w", err)
		}

		if rec == nil {
			card = c
			return nil
		}

		rec.Sequence, err = r.seq.Next(ctx, tx)
		if err != nil {
			return err
		}
		rec.UserID, rec.CardID, rec.DeckID = c.UserID, c.ID, c.DeckID
		if err := insertReview(ctx, tx, rec); err != nil {
			return err
		}

		if rec.SessionID != "" {
			if err := bumpSession(ctx, tx, userID, rec.SessionID, rec.Correct); err != nil {
				return err
			}
		}
		card = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

func (r *cardRepo) selectCards(ctx context.Context, sel builder) ([]flashcard.Card, error) {
	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	var cards []flashcard.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

func scanCard(s rowScanner) (*flashcard.Card, error) {
	var (
		c            flashcard.Card
		cardType     string
		options      string
		nextReview   sql.NullTime
		lastReviewed sql.NullTime
	)
	err := s.Scan(&c.ID, &c.DeckID, &c.UserID, &c.Question, &c.Answer, &cardType, &options,
		&c.CorrectIndex, &c.Schedule.EaseFactor, &c.Schedule.Interval, &c.Schedule.Repetitions,
		&nextReview, &lastReviewed, &c.ReviewCount, &c.CorrectCount, &c.IncorrectCount,
		&c.Deleted, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Type = flashcard.CardType(cardType)
	c.Options = decodeStrings(options)
	if nextReview.Valid {
		c.Schedule.NextReview = nextReview.Time
	}
	c.LastReviewed = timePtr(lastReviewed)
	return &c, nil
}
