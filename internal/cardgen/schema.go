package cardgen

import "github.com/abhisek/flashdeck/internal/llm"

// CardBatchSchema defines the JSON schema for generated flashcards.
var CardBatchSchema = &llm.Schema{
	Name:        "flashcard-batch",
	Description: "A batch of study flashcards on one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"flashcards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "Short, clear question",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "Concise answer. For mcq, the text of the correct option.",
						},
						"cardType": map[string]any{
							"type": "string",
							"enum": []any{"flashcard", "mcq"},
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly 4 options for mcq. Empty array for flashcard.",
						},
						"correctAnswerIndex": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"description": "Index of the correct option for mcq. 0 for flashcard.",
						},
					},
					"required":             []any{"question", "answer", "cardType", "options", "correctAnswerIndex"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"flashcards"},
		"additionalProperties": false,
	},
}

// ConversionSchema defines the JSON schema for converting Q&A pairs into
// multiple choice questions.
var ConversionSchema = &llm.Schema{
	Name:        "mcq-conversion",
	Description: "Multiple choice options for each input item, in input order",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"conversions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"options": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"correctAnswerIndex": map[string]any{
							"type":    "integer",
							"minimum": 0,
						},
					},
					"required":             []any{"options", "correctAnswerIndex"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"conversions"},
		"additionalProperties": false,
	},
}
