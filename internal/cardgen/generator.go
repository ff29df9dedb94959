// Package cardgen drafts flashcards and multiple choice variants with an LLM.
package cardgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/flashdeck/internal/flashcard"
	"github.com/abhisek/flashdeck/internal/llm"
)

// ErrNoCards is returned when the LLM produced no usable card.
var ErrNoCards = errors.New("no valid cards generated")

// Generator produces card drafts with an LLM provider.
type Generator struct {
	provider llm.Provider
	cfg      Config
	log      logrus.FieldLogger
}

// New creates a Generator. A nil provider yields a Generator whose
// conversions fall back to the original cards.
func New(provider llm.Provider, cfg Config, log logrus.FieldLogger) *Generator {
	return &Generator{provider: provider, cfg: cfg.withDefaults(), log: log}
}

type cardOutput struct {
	Flashcards []flashcard.Draft `json:"flashcards"`
}

// Generate asks the LLM for count cards on topic. Drafts failing card
// validation or repeating one of the existing questions are dropped;
// ErrNoCards is returned when none survive.
func (g *Generator) Generate(ctx context.Context, topic string, count int, existing ...string) ([]flashcard.Draft, error) {
	if g.provider == nil {
		return nil, &llm.ErrProviderUnavailable{Err: errors.New("no LLM provider configured")}
	}
	if count <= 0 {
		count = 5
	}
	if count > g.cfg.MaxCards {
		count = g.cfg.MaxCards
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeCardGen)
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: generateSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildGenerateMessage(topic, count, buildAvoidList(existing, g.cfg.MaxPriorQuestions))},
		},
		Schema:      CardBatchSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var out cardOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	drafts := make([]flashcard.Draft, 0, len(out.Flashcards))
	for i, d := range out.Flashcards {
		d = d.Normalize()
		if err := flashcard.ValidateDraft(d); err != nil {
			g.log.WithError(err).WithField("index", i).Warn("dropping generated card")
			continue
		}
		drafts = append(drafts, d)
	}
	drafts, dupes := dropDuplicates(drafts, existing)
	if dupes > 0 {
		g.log.WithField("count", dupes).Debug("dropped repeated questions")
	}
	if len(drafts) == 0 {
		return nil, ErrNoCards
	}
	if len(drafts) > count {
		drafts = drafts[:count]
	}
	return drafts, nil
}

type conversion struct {
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctAnswerIndex"`
}

type conversionOutput struct {
	Conversions []conversion `json:"conversions"`
}

// ConvertToMCQ returns cards with every plain card turned into a multiple
// choice question. Cards are sent in batches that run concurrently. A card
// whose conversion is missing or malformed, or whose batch failed, is
// returned unchanged. The input slice is not modified.
func (g *Generator) ConvertToMCQ(ctx context.Context, cards []flashcard.Card) []flashcard.Card {
	out := make([]flashcard.Card, len(cards))
	copy(out, cards)
	if g.provider == nil {
		return out
	}

	var pending []int
	for i, c := range out {
		if !c.IsMCQ() {
			pending = append(pending, i)
		}
	}
	if len(pending) == 0 {
		return out
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeMCQConvert)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Concurrency)

	for start := 0; start < len(pending); start += g.cfg.BatchSize {
		batch := pending[start:min(start+g.cfg.BatchSize, len(pending))]
		eg.Go(func() error {
			g.convertBatch(ctx, out, batch)
			return nil
		})
	}
	_ = eg.Wait()
	return out
}

// convertBatch rewrites out[i] for each index in batch that converts
// cleanly. Batches touch disjoint indexes.
func (g *Generator) convertBatch(ctx context.Context, out []flashcard.Card, batch []int) {
	items := make([]flashcard.Card, len(batch))
	for j, i := range batch {
		items[j] = out[i]
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: convertSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildConvertMessage(items)},
		},
		Schema:      ConversionSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		g.log.WithError(err).WithField("batch_size", len(batch)).Warn("mcq conversion failed, keeping original cards")
		return
	}

	var conv conversionOutput
	if err := json.Unmarshal(resp.Content, &conv); err != nil {
		g.log.WithError(err).Warn("mcq conversion returned malformed JSON")
		return
	}

	for j, i := range batch {
		if j >= len(conv.Conversions) {
			break
		}
		if c, ok := applyConversion(out[i], conv.Conversions[j]); ok {
			out[i] = c
		}
	}
}

// applyConversion returns c as an MCQ built from conv, or false when the
// conversion does not form a valid multiple choice card.
func applyConversion(c flashcard.Card, conv conversion) (flashcard.Card, bool) {
	if conv.CorrectIndex == nil {
		return c, false
	}
	d := flashcard.Draft{
		Question:     c.Question,
		Type:         flashcard.TypeMCQ,
		Options:      conv.Options,
		CorrectIndex: *conv.CorrectIndex,
	}.Normalize()
	if err := flashcard.ValidateDraft(d); err != nil {
		return c, false
	}
	c.Type = d.Type
	c.Options = d.Options
	c.CorrectIndex = d.CorrectIndex
	c.Answer = d.Answer
	return c, true
}
