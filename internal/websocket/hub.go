package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/makeasinger/lyricarchitect/internal/logger"
	"github.com/makeasinger/lyricarchitect/internal/service"
)

const defaultPingInterval = 30 * time.Second

// Hub tracks live song sessions so they can be counted and closed on shutdown
type Hub struct {
	generator    service.SongGenerator
	log          *logger.Logger
	pingInterval time.Duration

	mu       sync.RWMutex
	sessions map[*Session]struct{}
}

// NewHub creates a new Hub
func NewHub(generator service.SongGenerator, log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		generator:    generator,
		log:          log,
		pingInterval: defaultPingInterval,
		sessions:     make(map[*Session]struct{}),
	}
}

func (h *Hub) register(s *Session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
	s.log.Debug("Session opened")
}

func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
	s.log.Debug("Session closed")
}

// Count returns the number of open sessions
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// CloseAll cancels every open session, aborting in-flight generations
func (h *Hub) CloseAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.sessions {
		s.cancel()
	}
}

// HandleConnection runs a session on c until either side closes it.
// allow gates each generate message and may be nil.
func (h *Hub) HandleConnection(c *websocket.Conn, allow AllowFunc) {
	s := newSession(context.Background(), h.generator, allow, h.log)

	h.register(s)
	defer h.unregister(s)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(c, h.pingInterval)
	}()

	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.log.Warn("WebSocket read failed", "error", err.Error())
			}
			break
		}
		s.handle(message)
	}

	s.cancel()
	<-writerDone
	s.wait()
}
