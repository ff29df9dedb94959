package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var reviewColumns = []string{
	"id", "sequence", "user_id", "card_id", "deck_id", "session_id", "quality",
	"correct", "ease_before", "ease_after", "interval_before", "interval_after",
	"time_spent_ms", "reviewed_at",
}

type reviewRepo struct {
	db *sql.DB
}

func insertReview(ctx context.Context, q querier, rec *ReviewRecord) error {
	ins := sqlb.Insert(ReviewHistoryTable.Name).
		Columns(reviewColumns...).
		Values(rec.ID, rec.Sequence, rec.UserID, rec.CardID, rec.DeckID, rec.SessionID,
			rec.Quality, rec.Correct, rec.EaseBefore, rec.EaseAfter, rec.IntervalBefore,
			rec.IntervalAfter, rec.TimeSpentMs, dbTime(rec.ReviewedAt))
	if _, err := exec(ctx, q, ins); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *reviewRepo) ListByCard(ctx context.Context, userID, cardID string, limit int) ([]ReviewRecord, error) {
	sel := sqlb.Select(reviewColumns...).From(sqlb.Table(ReviewHistoryTable.Name)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("card_id", cardID),
		)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var out []ReviewRecord
	for rows.Next() {
		var rec ReviewRecord
		if err := rows.Scan(&rec.ID, &rec.Sequence, &rec.UserID, &rec.CardID, &rec.DeckID,
			&rec.SessionID, &rec.Quality, &rec.Correct, &rec.EaseBefore, &rec.EaseAfter,
			&rec.IntervalBefore, &rec.IntervalAfter, &rec.TimeSpentMs, &rec.ReviewedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *reviewRepo) Stats(ctx context.Context, userID string) (ReviewStats, error) {
	sel := sqlb.Select(entsql.Count("*"), "COALESCE(SUM(correct), 0)").
		From(sqlb.Table(ReviewHistoryTable.Name)).
		Where(entsql.EQ("user_id", userID))
	var st ReviewStats
	if err := queryRow(ctx, r.db, sel).Scan(&st.Total, &st.Correct); err != nil {
		return ReviewStats{}, fmt.Errorf("review stats: %w", err)
	}
	return st, nil
}
