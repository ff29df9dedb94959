package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// DecksColumns holds the columns for the "decks" table.
	DecksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString, Size: 100},
		{Name: "description", Type: field.TypeString, Size: 500, Default: ""},
		{Name: "tags", Type: field.TypeString, Default: "[]"},
		{Name: "category", Type: field.TypeString, Default: ""},
		{Name: "card_count", Type: field.TypeInt, Default: 0},
		{Name: "deleted", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// DecksTable holds the schema information for the "decks" table.
	DecksTable = &schema.Table{
		Name:       "decks",
		Columns:    DecksColumns,
		PrimaryKey: []*schema.Column{DecksColumns[0]},
		Indexes: []*schema.Index{
			{Name: "deck_user_id_deleted", Columns: []*schema.Column{DecksColumns[1], DecksColumns[7]}},
		},
	}

	// CardsColumns holds the columns for the "cards" table.
	CardsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "deck_id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "question", Type: field.TypeString, Size: 2147483647},
		{Name: "answer", Type: field.TypeString, Size: 2147483647},
		{Name: "card_type", Type: field.TypeString, Default: "flashcard"},
		{Name: "options", Type: field.TypeString, Default: "[]"},
		{Name: "correct_index", Type: field.TypeInt, Default: 0},
		{Name: "ease_factor", Type: field.TypeFloat64, Default: 2.5},
		{Name: "interval_days", Type: field.TypeInt, Default: 0},
		{Name: "repetitions", Type: field.TypeInt, Default: 0},
		{Name: "next_review", Type: field.TypeTime, Nullable: true},
		{Name: "last_reviewed", Type: field.TypeTime, Nullable: true},
		{Name: "review_count", Type: field.TypeInt, Default: 0},
		{Name: "correct_count", Type: field.TypeInt, Default: 0},
		{Name: "incorrect_count", Type: field.TypeInt, Default: 0},
		{Name: "deleted", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// CardsTable holds the schema information for the "cards" table.
	CardsTable = &schema.Table{
		Name:       "cards",
		Columns:    CardsColumns,
		PrimaryKey: []*schema.Column{CardsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "cards_decks_cards",
				Columns:    []*schema.Column{CardsColumns[1]},
				RefColumns: []*schema.Column{DecksColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "card_user_id_deck_id", Columns: []*schema.Column{CardsColumns[2], CardsColumns[1]}},
			{Name: "card_next_review", Columns: []*schema.Column{CardsColumns[11]}},
		},
	}

	// ReviewHistoryColumns holds the columns for the "review_history" table.
	ReviewHistoryColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "card_id", Type: field.TypeString},
		{Name: "deck_id", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString, Default: ""},
		{Name: "quality", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeBool},
		{Name: "ease_before", Type: field.TypeFloat64},
		{Name: "ease_after", Type: field.TypeFloat64},
		{Name: "interval_before", Type: field.TypeInt},
		{Name: "interval_after", Type: field.TypeInt},
		{Name: "time_spent_ms", Type: field.TypeInt64, Default: 0},
		{Name: "reviewed_at", Type: field.TypeTime},
	}
	// ReviewHistoryTable holds the schema information for the "review_history" table.
	ReviewHistoryTable = &schema.Table{
		Name:       "review_history",
		Columns:    ReviewHistoryColumns,
		PrimaryKey: []*schema.Column{ReviewHistoryColumns[0]},
		Indexes: []*schema.Index{
			{Name: "review_user_id_reviewed_at", Columns: []*schema.Column{ReviewHistoryColumns[2], ReviewHistoryColumns[13]}},
			{Name: "review_card_id", Columns: []*schema.Column{ReviewHistoryColumns[3]}},
		},
	}

	// StudySessionsColumns holds the columns for the "study_sessions" table.
	StudySessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "deck_id", Type: field.TypeString, Default: ""},
		{Name: "mode", Type: field.TypeString, Default: "standard"},
		{Name: "start_time", Type: field.TypeTime},
		{Name: "end_time", Type: field.TypeTime, Nullable: true},
		{Name: "duration_secs", Type: field.TypeInt, Default: 0},
		{Name: "cards_reviewed", Type: field.TypeInt, Default: 0},
		{Name: "correct_answers", Type: field.TypeInt, Default: 0},
		{Name: "incorrect_answers", Type: field.TypeInt, Default: 0},
		{Name: "score", Type: field.TypeInt, Default: 0},
		{Name: "total_questions", Type: field.TypeInt, Default: 0},
		{Name: "active", Type: field.TypeBool, Default: true},
	}
	// StudySessionsTable holds the schema information for the "study_sessions" table.
	StudySessionsTable = &schema.Table{
		Name:       "study_sessions",
		Columns:    StudySessionsColumns,
		PrimaryKey: []*schema.Column{StudySessionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "session_user_id_start_time", Columns: []*schema.Column{StudySessionsColumns[1], StudySessionsColumns[4]}},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LlmRequestEventsColumns[5]}},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		DecksTable,
		CardsTable,
		ReviewHistoryTable,
		StudySessionsTable,
		LlmRequestEventsTable,
	}
)

func init() {
	CardsTable.ForeignKeys[0].RefTable = DecksTable
}
