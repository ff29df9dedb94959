package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var sessionColumns = []string{
	"id", "user_id", "deck_id", "mode", "start_time", "end_time", "duration_secs",
	"cards_reviewed", "correct_answers", "incorrect_answers", "score",
	"total_questions", "active",
}

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Create(ctx context.Context, s *Session) error {
	ins := sqlb.Insert(StudySessionsTable.Name).
		Columns(sessionColumns...).
		Values(s.ID, s.UserID, s.DeckID, string(s.Mode), dbTime(s.StartTime), nullTime(s.EndTime),
			s.DurationSecs, s.CardsReviewed, s.CorrectAnswers, s.IncorrectAnswers, s.Score,
			s.TotalQuestions, s.Active)
	if _, err := exec(ctx, r.db, ins); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, userID, id string) (*Session, error) {
	return getSession(ctx, r.db, userID, id)
}

func getSession(ctx context.Context, q querier, userID, id string) (*Session, error) {
	sel := sqlb.Select(sessionColumns...).From(sqlb.Table(StudySessionsTable.Name)).
		Where(entsql.And(
			entsql.EQ("id", id),
			entsql.EQ("user_id", userID),
		))
	s, err := scanSession(queryRow(ctx, q, sel))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

func (r *sessionRepo) End(ctx context.Context, userID, id string, res SessionResult) (*Session, error) {
	var out *Session
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		s, err := getSession(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if !s.Active {
			return ErrSessionClosed
		}

		end := dbTime(res.EndTime)
		upd := sqlb.Update(StudySessionsTable.Name).
			Set("end_time", end).
			Set("duration_secs", res.DurationSecs).
			Set("active", false).
			Where(entsql.EQ("id", id))
		if s.Mode == ModeExam {
			upd = upd.Set("score", res.Score).Set("cards_reviewed", res.Answered)
			s.Score, s.CardsReviewed = res.Score, res.Answered
		}
		if _, err := exec(ctx, tx, upd); err != nil {
			return fmt.Errorf("end session: %w", err)
		}

		s.EndTime = &end
		s.DurationSecs = res.DurationSecs
		s.Active = false
		out = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// bumpSession counts one review against an active session.
func bumpSession(ctx context.Context, q querier, userID, id string, correct bool) error {
	upd := sqlb.Update(StudySessionsTable.Name).Add("cards_reviewed", 1)
	if correct {
		upd = upd.Add("correct_answers", 1)
	} else {
		upd = upd.Add("incorrect_answers", 1)
	}
	res, err := exec(ctx, q, upd.Where(entsql.And(
		entsql.EQ("id", id),
		entsql.EQ("user_id", userID),
		entsql.EQ("active", true),
	)))
	if err != nil {
		return fmt.Errorf("bump session: %w", err)
	}
	if err := affectedOne(res); err != nil {
		if _, getErr := getSession(ctx, q, userID, id); getErr != nil {
			return getErr
		}
		return ErrSessionClosed
	}
	return nil
}

func (r *sessionRepo) CompletedCount(ctx context.Context, userID string) (int, error) {
	n, err := count(ctx, r.db, StudySessionsTable.Name, entsql.And(
		entsql.EQ("user_id", userID),
		entsql.EQ("active", false),
	))
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return n, nil
}

func (r *sessionRepo) SecondsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	sel := sqlb.Select("COALESCE(SUM(duration_secs), 0)").
		From(sqlb.Table(StudySessionsTable.Name)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.GTE("end_time", dbTime(since)),
		))
	var secs int
	if err := queryRow(ctx, r.db, sel).Scan(&secs); err != nil {
		return 0, fmt.Errorf("sum session time: %w", err)
	}
	return secs, nil
}

func (r *sessionRepo) Recent(ctx context.Context, userID string, limit int) ([]Session, error) {
	sel := sqlb.Select(sessionColumns...).From(sqlb.Table(StudySessionsTable.Name)).
		Where(entsql.EQ("user_id", userID)).
		OrderBy(entsql.Desc("start_time"), entsql.Desc("id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanSession(sc rowScanner) (*Session, error) {
	var (
		s    Session
		mode string
		end  sql.NullTime
	)
	err := sc.Scan(&s.ID, &s.UserID, &s.DeckID, &mode, &s.StartTime, &end, &s.DurationSecs,
		&s.CardsReviewed, &s.CorrectAnswers, &s.IncorrectAnswers, &s.Score,
		&s.TotalQuestions, &s.Active)
	if err != nil {
		return nil, err
	}
	s.Mode = SessionMode(mode)
	s.EndTime = timePtr(end)
	return &s, nil
}
