package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/makeasinger/lyricarchitect/internal/config"
	"github.com/makeasinger/lyricarchitect/internal/prompt"
)

const providerNameGemini = "gemini"

// GeminiClient generates text with Google's Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client. The API key is required.
func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Name returns the provider name
func (c *GeminiClient) Name() string { return providerNameGemini }

// Model returns the configured model identifier
func (c *GeminiClient) Model() string { return c.model }

// IsConfigured returns true once the SDK client exists
func (c *GeminiClient) IsConfigured() bool { return c.client != nil }

// Generate issues one GenerateContent call and returns the concatenated text parts
func (c *GeminiClient) Generate(ctx context.Context, req GenerationRequest) (string, error) {
	temperature := float32(req.Temperature())
	gc := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if req.ResponseFormat() == ResponseFormatJSON {
		gc.ResponseMIMEType = ResponseFormatJSON
		gc.ResponseSchema = songSchema()
	}

	result, err := c.client.Models.GenerateContent(ctx, req.Model(), genai.Text(req.Prompt()), gc)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && apiErr.Code != 0 {
			return "", &StatusError{Provider: providerNameGemini, StatusCode: apiErr.Code, Body: apiErr.Message}
		}
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini response did not include any output text")
	}

	return sb.String(), nil
}

// songSchema describes the {lyrics, styleDescription} object
func songSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			prompt.KeyLyrics:           {Type: genai.TypeString},
			prompt.KeyStyleDescription: {Type: genai.TypeString},
		},
		Required:         []string{prompt.KeyLyrics, prompt.KeyStyleDescription},
		PropertyOrdering: []string{prompt.KeyLyrics, prompt.KeyStyleDescription},
	}
}
