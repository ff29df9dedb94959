package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// openAIBackend describes a service that speaks the OpenAI chat API.
type openAIBackend struct {
	baseURL      string
	defaultModel string
	models       map[string]string
	// strictSchema is false where the default models do not accept
	// json_schema response formats. Those get json_object mode and the
	// schema spelled out in the system prompt instead.
	strictSchema bool
}

var openAIBackends = map[string]openAIBackend{
	"openai": {
		defaultModel: "gpt-4o-mini",
		models:       map[string]string{"gpt-4o": "gpt-4o", "gpt-4o-mini": "gpt-4o-mini"},
		strictSchema: true,
	},
	"groq": {
		baseURL:      "https://api.groq.com/openai/v1",
		defaultModel: "llama-3.3-70b-versatile",
	},
}

// OpenAIProvider serves every backend in openAIBackends; which one is
// decided by name at construction.
type OpenAIProvider struct {
	name    string
	client  *openai.Client
	model   string
	backend openAIBackend
}

// NewOpenAIProvider creates a provider for the named OpenAI-compatible
// backend. cfg.BaseURL overrides the backend's own endpoint.
func NewOpenAIProvider(name string, cfg OpenAIConfig) (*OpenAIProvider, error) {
	backend, ok := openAIBackends[name]
	if !ok {
		return nil, fmt.Errorf("unknown OpenAI-compatible backend %q", name)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", name)
	}

	config := openai.DefaultConfig(cfg.APIKey)
	switch {
	case cfg.BaseURL != "":
		config.BaseURL = cfg.BaseURL
	case backend.baseURL != "":
		config.BaseURL = backend.baseURL
	}

	model := cfg.Model
	if model == "" {
		model = backend.defaultModel
	}
	return &OpenAIProvider{
		name:    name,
		client:  openai.NewClientWithConfig(config),
		model:   resolveModel(model, backend.models),
		backend: backend,
	}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
		User:                requestTag(ctx),
	}

	system := req.System
	if req.Schema != nil {
		schemaJSON, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema %q: %w", req.Schema.Name, err)
		}
		if p.backend.strictSchema {
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:        req.Schema.Name,
					Description: req.Schema.Description,
					Schema:      json.RawMessage(schemaJSON),
					Strict:      true,
				},
			}
		} else {
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
			system += "\n\nReply with a single JSON object matching this JSON Schema:\n" + string(schemaJSON)
		}
	}
	chatReq.Messages = openAIMessages(system, req.Messages)

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("%s reply has no choices", p.name)}
	}

	choice := resp.Choices[0]
	stop := StopEnd
	if choice.FinishReason == openai.FinishReasonLength {
		stop = StopMaxTokens
	}
	return finish(req, &Response{
		Content: json.RawMessage(choice.Message.Content),
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: stop,
	})
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func openAIMessages(system string, msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	if system != "" {
		out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, 0, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, 0, err)
	}
	return &ErrProviderUnavailable{Err: err}
}
