package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/makeasinger/lyricarchitect/internal/logger"
	"github.com/makeasinger/lyricarchitect/internal/model"
	"github.com/makeasinger/lyricarchitect/internal/service"
	"github.com/makeasinger/lyricarchitect/pkg/response"
)

const (
	sendBuffer  = 16
	busyMessage = "A song is already being generated. Please wait for it to finish."
)

// AllowFunc reports whether another generation may start
type AllowFunc func(ctx context.Context) bool

// Session is one WebSocket client. It runs at most one generation at a time.
type Session struct {
	id        string
	generator service.SongGenerator
	allow     AllowFunc
	log       *logger.Logger

	send   chan []byte
	busy   atomic.Bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newSession(parent context.Context, generator service.SongGenerator, allow AllowFunc, log *logger.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.NewString()
	return &Session{
		id:        id,
		generator: generator,
		allow:     allow,
		log:       log.With("session_id", id),
		send:      make(chan []byte, sendBuffer),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// handle dispatches one client message
func (s *Session) handle(data []byte) {
	var msg model.WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.sendError("", response.CodeValidationError, "Invalid message")
		return
	}

	switch msg.Type {
	case model.WSMessageTypePing:
		s.enqueue(model.WSMessage{Type: model.WSMessageTypePong})

	case model.WSMessageTypeGenerate:
		var gen model.WSGenerateMessage
		if err := json.Unmarshal(data, &gen); err != nil {
			s.sendError("", response.CodeValidationError, "Invalid message")
			return
		}
		s.startGeneration(gen.Description)

	default:
		s.sendError("", response.CodeValidationError, "Unsupported message type")
	}
}

func (s *Session) startGeneration(description string) {
	if strings.TrimSpace(description) == "" {
		s.sendError("", response.CodeValidationError, service.EmptyInputMessage)
		return
	}

	// Overlapping requests are rejected, not queued
	if !s.busy.CompareAndSwap(false, true) {
		s.sendError("", response.CodeBusy, busyMessage)
		return
	}

	if s.allow != nil && !s.allow(s.ctx) {
		s.busy.Store(false)
		s.sendError("", response.CodeRateLimited, "Rate limit exceeded")
		return
	}

	attemptID := uuid.NewString()
	s.enqueue(model.WSStatusMessage{
		Type:      model.WSMessageTypeStatus,
		AttemptID: attemptID,
		State:     model.AttemptRequesting,
	})

	s.wg.Add(1)
	go s.run(attemptID, description)
}

func (s *Session) run(attemptID, description string) {
	defer s.wg.Done()
	// Released only after the outcome is queued, so a client that has seen the
	// result can always start the next attempt.
	defer s.busy.Store(false)

	result, err := s.generator.Generate(s.ctx, attemptID, description)
	if err != nil {
		s.enqueue(model.WSStatusMessage{
			Type:      model.WSMessageTypeStatus,
			AttemptID: attemptID,
			State:     model.AttemptFailed,
		})
		code := response.CodeGenerationFailed
		if service.KindOf(err) == service.KindEmptyInput {
			code = response.CodeValidationError
		}
		s.sendError(attemptID, code, service.UserMessage(err))
		return
	}

	s.enqueue(model.WSStatusMessage{
		Type:      model.WSMessageTypeStatus,
		AttemptID: attemptID,
		State:     model.AttemptSucceeded,
	})
	s.enqueue(model.WSResultMessage{
		Type:      model.WSMessageTypeResult,
		AttemptID: attemptID,
		Result:    *result,
	})
}

func (s *Session) sendError(attemptID, code, message string) {
	s.enqueue(model.WSErrorMessage{
		Type:      model.WSMessageTypeError,
		AttemptID: attemptID,
		Error: model.WSError{
			Code:    code,
			Message: message,
		},
	})
}

// enqueue queues v for the writer. Messages are dropped once the session is closed.
func (s *Session) enqueue(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("Failed to marshal message", err)
		return
	}

	select {
	case s.send <- data:
	case <-s.ctx.Done():
	}
}

// writeLoop is the only writer on c
func (s *Session) writeLoop(c *websocket.Conn, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message := <-s.send:
			if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
				s.cancel()
				return
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.cancel()
				return
			}

		case <-s.ctx.Done():
			_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// wait blocks until the in-flight generation, if any, has returned
func (s *Session) wait() {
	s.wg.Wait()
}
