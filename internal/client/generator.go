package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

const (
	// Temperature is the fixed sampling temperature for song generation
	Temperature = 0.8

	// ResponseFormatJSON asks the provider for a machine-parseable JSON body
	ResponseFormatJSON = "application/json"
)

// Generator performs one call to a hosted text-generation model and returns its raw text
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	Name() string
	Model() string
	IsConfigured() bool
}

// GenerationRequest is one immutable request to the generation endpoint
type GenerationRequest struct {
	model          string
	prompt         string
	responseFormat string
	temperature    float64
}

// NewGenerationRequest builds a request in structured-JSON mode at the fixed temperature
func NewGenerationRequest(model, prompt string) GenerationRequest {
	return GenerationRequest{
		model:          model,
		prompt:         prompt,
		responseFormat: ResponseFormatJSON,
		temperature:    Temperature,
	}
}

func (r GenerationRequest) Model() string          { return r.model }
func (r GenerationRequest) Prompt() string         { return r.prompt }
func (r GenerationRequest) ResponseFormat() string { return r.responseFormat }
func (r GenerationRequest) Temperature() float64   { return r.temperature }

// StatusError is returned when a provider answers with a non-success status
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// IsTransient reports whether err is worth one more attempt:
// timeouts, network errors, 429 and 5xx answers.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return isTransientStatus(statusErr.StatusCode)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
