package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/flashdeck/internal/flashcard"
)

var deckColumns = []string{
	"id", "user_id", "title", "description", "tags", "category",
	"card_count", "deleted", "created_at", "updated_at",
}

type deckRepo struct {
	db *sql.DB
}

func (r *deckRepo) Create(ctx context.Context, d *flashcard.Deck) error {
	ins := sqlb.Insert(DecksTable.Name).
		Columns(deckColumns...).
		Values(d.ID, d.UserID, d.Title, d.Description, encodeStrings(d.Tags), d.Category,
			d.CardCount, d.Deleted, dbTime(d.CreatedAt), dbTime(d.UpdatedAt))
	if _, err := exec(ctx, r.db, ins); err != nil {
		return fmt.Errorf("insert deck: %w", err)
	}
	return nil
}

func (r *deckRepo) Get(ctx context.Context, userID, id string) (*flashcard.Deck, error) {
	sel := sqlb.Select(deckColumns...).From(sqlb.Table(DecksTable.Name)).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("user_id", userID),
			entsql.EQ("deleted", false),
		))
	d, err := scanDeck(queryRow(ctx, r.db, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}
	return d, nil
}

func (r *deckRepo) Update(ctx context.Context, d *flashcard.Deck) error {
	upd := sqlb.Update(DecksTable.Name).
		Set("title", d.Title).
		Set("description", d.Description).
		Set("tags", encodeStrings(d.Tags)).
		Set("category", d.Category).
		Set("updated_at", dbTime(d.UpdatedAt)).
		Where(entsql.And(
			entsql.EQ("id", d.ID),
			entsql.EQ("user_id", d.UserID),
			entsql.EQ("deleted", false),
		))
	res, err := exec(ctx, r.db, upd)
	if err != nil {
		return fmt.Errorf("update deck: %w", err)
	}
	return affectedOne(res)
}

func (r *deckRepo) Delete(ctx context.Context, userID, id string, now time.Time) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := exec(ctx, tx, sqlb.Update(DecksTable.Name).
			Set("deleted", true).
			Set("card_count", 0).
			Set("updated_at", dbTime(now)).
			Where(entsql.And(
				entsql.EQ("id", id),
				entsql.EQ("user_id", userID),
				entsql.EQ("deleted", false),
			)))
		if err != nil {
			return fmt.Errorf("delete deck: %w", err)
		}
		if err := affectedOne(res); err != nil {
			return err
		}

		_, err = exec(ctx, tx, sqlb.Update(CardsTable.Name).
			Set("deleted", true).
			Set("updated_at", dbTime(now)).
			Where(entsql.And(
				entsql.EQ("deck_id", id),
				entsql.EQ("deleted", false),
			)))
		if err != nil {
			return fmt.Errorf("delete deck cards: %w", err)
		}
		return nil
	})
}

func (r *deckRepo) List(ctx context.Context, q DeckQuery) ([]flashcard.Deck, Pagination, error) {
	page, size := pageBounds(q.Page, q.PageSize, DefaultDeckPageSize)

	preds := []*entsql.Predicate{
		entsql.EQ("user_id", q.UserID),
		entsql.EQ("deleted", false),
	}
	if q.Search != "" {
		preds = append(preds, entsql.Or(
			entsql.ContainsFold("title", q.Search),
			entsql.ContainsFold("description", q.Search),
		))
	}
	if q.Tag != "" {
		preds = append(preds, entsql.Contains("tags", tagNeedle(q.Tag)))
	}
	if q.Category != "" {
		preds = append(preds, entsql.EQ("category", q.Category))
	}
	where := entsql.And(preds...)

	total, err := count(ctx, r.db, DecksTable.Name, where)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("count decks: %w", err)
	}

	sel := sqlb.Select(deckColumns...).From(sqlb.Table(DecksTable.Name)).
		Where(where).
		OrderBy(entsql.Desc("created_at"), entsql.Asc("id")).
		Limit(size).
		Offset((page - 1) * size)
	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []flashcard.Deck
	for rows.Next() {
		d, err := scanDeck(rows)
		if err != nil {
			return nil, Pagination{}, fmt.Errorf("scan deck: %w", err)
		}
		decks = append(decks, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, Pagination{}, err
	}
	return decks, newPagination(page, size, total), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeck(s rowScanner) (*flashcard.Deck, error) {
	var (
		d    flashcard.Deck
		tags string
	)
	err := s.Scan(&d.ID, &d.UserID, &d.Title, &d.Description, &tags, &d.Category,
		&d.CardCount, &d.Deleted, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.Tags = decodeStrings(tags)
	return &d, nil
}

// tagNeedle is the JSON form of a single tag as it appears inside the
// encoded tags array, so a tag never matches a longer one containing it.
func tagNeedle(tag string) string {
	b, _ := json.Marshal(tag)
	return string(b)
}
