package llm

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/flashdeck/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with the
// timeout, retry, throttle and event logging middleware.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo, log logrus.FieldLogger) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider("openai", cfg.OpenAI)
	case "groq":
		base, err = NewOpenAIProvider("groq", cfg.Groq)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// caller → timeout → retry → throttle → logging → base
	p := WithLogging(base, cfg.Provider, eventRepo, log)
	if cfg.RatePerMinute > 0 {
		p = WithRateLimit(p, cfg.RatePerMinute)
	}
	p = WithRetry(p, cfg.Retry)
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p, nil
}
