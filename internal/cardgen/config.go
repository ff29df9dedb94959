package cardgen

// Config controls card generation and MCQ conversion.
type Config struct {
	// MaxTokens is the token budget for one LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// BatchSize is the number of cards sent in one conversion request.
	BatchSize int

	// Concurrency caps the conversion requests in flight.
	Concurrency int

	// MaxCards bounds a single Generate call.
	MaxCards int

	// MaxPriorQuestions caps the existing questions listed in the prompt.
	MaxPriorQuestions int
}

// DefaultConfig returns the recommended generation settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.7,
		BatchSize:   10,
		Concurrency: 4,
		MaxCards:    50,

		MaxPriorQuestions: 30,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxTokens <= 0 {
		c.MaxTokens = d.MaxTokens
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = d.Concurrency
	}
	if c.MaxCards <= 0 {
		c.MaxCards = d.MaxCards
	}
	if c.MaxPriorQuestions <= 0 {
		c.MaxPriorQuestions = d.MaxPriorQuestions
	}
	return c
}
