package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/makeasinger/lyricarchitect/internal/config"
)

const providerNameOpenAI = "openai"

// OpenAIClient generates text with OpenAI chat completions
type OpenAIClient struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIClient creates a new OpenAI client. SDK retries are disabled;
// the song service owns the retry policy.
func NewOpenAIClient(cfg *config.OpenAIConfig) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	client := openai.NewClient(opts...)
	return &OpenAIClient{
		client: &client,
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

// Name returns the provider name
func (c *OpenAIClient) Name() string { return providerNameOpenAI }

// Model returns the configured model identifier
func (c *OpenAIClient) Model() string { return c.model }

// IsConfigured returns true if the client has an API key
func (c *OpenAIClient) IsConfigured() bool { return c.apiKey != "" }

// Generate sends one chat completion in JSON-object mode and returns the message content
func (c *OpenAIClient) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(req.Model()),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(req.Prompt()),
		},
		Temperature: openai.Float(req.Temperature()),
	}
	if req.ResponseFormat() == ResponseFormatJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", &StatusError{Provider: providerNameOpenAI, StatusCode: apiErr.StatusCode, Body: apiErr.Error()}
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
