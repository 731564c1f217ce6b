// internal/notify/hub.go
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"savings-tracker/internal/domain"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Message is the frame written to WebSocket clients.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub is the session registry: user id -> live WebSocket connections.
type Hub struct {
	mu       sync.RWMutex
	sessions map[int64]map[*session]struct{}
	upgrader websocket.Upgrader
	log      *zap.Logger
}

type session struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

var _ Publisher = (*Hub)(nil)

// NewHub accepts any Origin when allowedOrigins is empty.
func NewHub(log *zap.Logger, allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		sessions: make(map[int64]map[*session]struct{}),
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				return allowed[r.Header.Get("Origin")]
			},
		},
	}
}

// Serve upgrades the request and blocks until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID int64) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}

	s := &session{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.register(userID, s)
	defer h.unregister(userID, s)

	h.log.Info("websocket session opened",
		zap.Int64("user_id", userID),
		zap.String("remote_addr", r.RemoteAddr))

	go s.writePump(h.log)
	s.readPump()
	return nil
}

func (h *Hub) register(userID int64, s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[userID] == nil {
		h.sessions[userID] = make(map[*session]struct{})
	}
	h.sessions[userID][s] = struct{}{}
}

func (h *Hub) unregister(userID int64, s *session) {
	h.mu.Lock()
	delete(h.sessions[userID], s)
	if len(h.sessions[userID]) == 0 {
		delete(h.sessions, userID)
	}
	h.mu.Unlock()

	s.close()
	h.log.Info("websocket session closed", zap.Int64("user_id", userID))
}

// Sessions reports how many live connections a user has.
func (h *Hub) Sessions(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}

// Publish queues the event on every session of userID without waiting for the write.
func (h *Hub) Publish(ctx context.Context, userID int64, event string, payload any) error {
	msg, err := json.Marshal(Message{Event: event, Data: payload})
	if err != nil {
		return &domain.NotificationDeliveryError{UserID: userID, Event: event, Err: err}
	}

	h.mu.RLock()
	targets := make([]*session, 0, len(h.sessions[userID]))
	for s := range h.sessions[userID] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	dropped := 0
	for _, s := range targets {
		select {
		case s.send <- msg:
		case <-s.done:
		case <-ctx.Done():
			dropped++
		default:
			dropped++
		}
	}
	if dropped > 0 {
		return &domain.NotificationDeliveryError{
			UserID: userID,
			Event:  event,
			Err:    fmt.Errorf("%d of %d sessions not reachable", dropped, len(targets)),
		}
	}
	return nil
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// readPump only keeps the deadline fresh; clients never send anything we act on.
func (s *session) readPump() {
	defer s.close()
	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *session) writePump(log *zap.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
