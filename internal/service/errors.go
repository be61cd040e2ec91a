package service

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a generation attempt failed
type ErrorKind string

const (
	KindEmptyInput        ErrorKind = "empty_input"
	KindTransportFailure  ErrorKind = "transport_failure"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindMissingField      ErrorKind = "missing_field"
)

// User-visible messages. Every failure other than empty input shares one text.
const (
	EmptyInputMessage = "Please enter a song description."
	FailureMessage    = "An error occurred while generating content. Please try again."
)

// ErrGenerationFailed matches every *GenerationError via errors.Is
var ErrGenerationFailed = errors.New("failed to generate song content from the AI model")

// GenerationError is the single error type returned by SongService
type GenerationError struct {
	Kind ErrorKind
	Err  error
}

func newGenerationError(kind ErrorKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (%s)", ErrGenerationFailed, e.Kind)
	}
	return fmt.Sprintf("%s (%s): %v", ErrGenerationFailed, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

// KindOf returns the failure kind carried by err, or "" when err is not a GenerationError
func KindOf(err error) ErrorKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}

// UserMessage maps any generation error to the text shown to users
func UserMessage(err error) string {
	if KindOf(err) == KindEmptyInput {
		return EmptyInputMessage
	}
	return FailureMessage
}
