package llm

import (
	"context"
	"encoding/json"
)

// Provider turns a prompt into a JSON reply. Card generation and MCQ
// conversion are the only callers; both always send a Schema.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Request struct {
	System   string
	Messages []Message

	// Schema, when set, is passed to the backend's structured output mode
	// and the reply is checked against it before Generate returns.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema. Name doubles as the OpenAI schema name,
// so it must be kebab-case ("flashcard-batch").
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

type Response struct {
	// Content is the schema-checked JSON when the request carried a Schema.
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// finish applies the checks every backend shares once it has the raw text
// of a reply: truncated replies are rejected, then the content is cleaned
// and checked against req.Schema.
func finish(req Request, resp *Response) (*Response, error) {
	if resp.StopReason == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{MaxTokens: req.MaxTokens, Content: resp.Content}
	}
	if req.Schema == nil {
		return resp, nil
	}
	content, err := checkContent(req.Schema, resp.Content)
	if err != nil {
		return nil, err
	}
	resp.Content = content
	return resp, nil
}
