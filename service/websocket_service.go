package service

import (
	"net/http"
	"sync"
	"time"

	"github.com/docqa/docqa-be/types"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocketService broadcasts document processing status to connected
// clients while uploads are running.
type WebSocketService struct {
	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]bool
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewWebSocketService(logger *zap.Logger) *WebSocketService {
	return &WebSocketService{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins (adjust for production)
			},
		},
		clients: make(map[*websocket.Conn]bool),
		logger:  logger,
	}
}

// HandleStatus upgrades the request and keeps the connection registered
// until the client goes away.
func (s *WebSocketService) HandleStatus(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	conn.SetReadLimit(512 * 1024)

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
	}()

	// Drain reads to detect a closed connection; clients only listen.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

// Broadcast sends a processing status to every connected client, dropping
// connections that fail to accept the write.
func (s *WebSocketService) Broadcast(status types.ProcessingDocumentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(status); err != nil {
			conn.Close()
			delete(s.clients, conn)
		}
	}
}
