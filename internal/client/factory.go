package client

import (
	"context"
	"fmt"

	"github.com/makeasinger/lyricarchitect/internal/config"
)

// NewGenerator returns the generator selected by cfg.Generation.Provider.
// A missing credential for the selected provider is a configuration error.
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.Generation.Provider {
	case config.ProviderGemini, "":
		if cfg.Gemini.APIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured (set GEMINI_API_KEY)")
		}
		gemini, err := NewGeminiClient(ctx, &cfg.Gemini)
		if err != nil {
			return nil, err
		}
		return gemini, nil

	case config.ProviderGroq:
		if cfg.Groq.APIKey == "" {
			return nil, fmt.Errorf("groq API key not configured (set GROQ_API_KEY)")
		}
		return NewGroqClient(&cfg.Groq), nil

	case config.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			return nil, fmt.Errorf("openai API key not configured (set OPENAI_API_KEY)")
		}
		return NewOpenAIClient(&cfg.OpenAI), nil

	default:
		return nil, fmt.Errorf("unknown generation provider: %s (allowed: gemini, groq, openai)", cfg.Generation.Provider)
	}
}
