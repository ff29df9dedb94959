package cardgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/flashdeck/internal/flashcard"
)

const generateSystemPrompt = `You are an educational assistant that writes study flashcards.

Rules:
- Questions are short and self-contained. Answers are concise and factually correct.
- Mix in multiple choice questions at roughly 30% frequency.
- A multiple choice card has exactly 4 options, one of them correct, and its answer equals options[correctAnswerIndex].
- A plain flashcard has cardType "flashcard", an empty options array and correctAnswerIndex 0.
- Do not repeat a question.`

const convertSystemPrompt = `You are an exam generator. You turn question and answer pairs into multiple choice questions.

Rules:
- For each item write 3 plausible but incorrect options (distractors).
- The options array holds the original answer (or a concise version of it) and the 3 distractors.
- Shuffle the position of the correct answer and set correctAnswerIndex accordingly.
- Return exactly one conversion per input item, in input order.`

func buildGenerateMessage(topic string, count int, avoid string) string {
	msg := fmt.Sprintf("Generate %d flashcards about %q.", count, topic)
	if avoid != "" {
		msg += "\n\n" + avoid
	}
	return msg
}

func buildConvertMessage(cards []flashcard.Card) string {
	var b strings.Builder
	b.WriteString("Input items:\n")
	for i, c := range cards {
		fmt.Fprintf(&b, "Item %d: Q: %q, A: %q\n", i, c.Question, c.Answer)
	}
	return b.String()
}
