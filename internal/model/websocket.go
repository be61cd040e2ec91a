package model

// WebSocket message types
const (
	WSMessageTypeGenerate = "generate"
	WSMessageTypeStatus   = "status"
	WSMessageTypeResult   = "result"
	WSMessageTypeError    = "error"
	WSMessageTypePing     = "ping"
	WSMessageTypePong     = "pong"
)

// WSMessage represents a generic WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}

// WSGenerateMessage is sent by the client to start a generation
type WSGenerateMessage struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// WSStatusMessage reports an attempt state change
type WSStatusMessage struct {
	Type      string       `json:"type"`
	AttemptID string       `json:"attemptId,omitempty"`
	State     AttemptState `json:"state"`
}

// WSResultMessage carries a successful generation
type WSResultMessage struct {
	Type      string           `json:"type"`
	AttemptID string           `json:"attemptId"`
	Result    GenerationResult `json:"result"`
}

// WSErrorMessage represents an error
type WSErrorMessage struct {
	Type      string  `json:"type"`
	AttemptID string  `json:"attemptId,omitempty"`
	Error     WSError `json:"error"`
}

// WSError represents error details
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
