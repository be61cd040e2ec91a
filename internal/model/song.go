package model

// SongGenerateRequest represents the request body for song generation
type SongGenerateRequest struct {
	Description string `json:"description" validate:"required,max=2000"`
}

// GenerationResult holds the two text fields returned by the model
type GenerationResult struct {
	Lyrics           string `json:"lyrics"`
	StyleDescription string `json:"styleDescription"`
}

// AttemptState is the lifecycle of a single generation attempt
type AttemptState string

const (
	AttemptIdle       AttemptState = "idle"
	AttemptRequesting AttemptState = "requesting"
	AttemptSucceeded  AttemptState = "succeeded"
	AttemptFailed     AttemptState = "failed"
)
