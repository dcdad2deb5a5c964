package websocket

import (
	"encoding/json"
	"sync"

	"agri-assistant-be/internal/pkg/logger"
	"agri-assistant-be/pkg/session"
)

// Hub fans session events out to the websocket clients watching that
// session. A session can have several connections (phone plus kiosk).
type Hub struct {
	// Registered clients map: session id -> list of clients
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionId] = append(h.clients[client.SessionId], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"session_id": client.SessionId})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.SessionId]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.SessionId] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.SessionId]) == 0 {
					delete(h.clients, client.SessionId)
					h.logger.Info("Hub", "Session has no clients left", map[string]interface{}{"session_id": client.SessionId})
				}
			}
			h.mu.Unlock()
		}
	}
}

// PublishState pushes the session's UI flags (processing, listening,
// speaking) so controls can enable and disable without polling.
func (h *Hub) PublishState(sessionId string, flags session.Flags) {
	h.push(sessionId, "state", flags)
}

// PublishTranscript pushes a finalized recognition transcript.
func (h *Hub) PublishTranscript(sessionId string, text string) {
	h.push(sessionId, "transcript", map[string]string{"text": text})
}

// PublishDocumentReady notifies that an uploaded document is available for
// grounding.
func (h *Hub) PublishDocumentReady(sessionId, documentId, displayName string) {
	h.push(sessionId, "document_ready", map[string]string{
		"document_id":  documentId,
		"display_name": displayName,
	})
}

func (h *Hub) push(sessionId, eventType string, data interface{}) {
	payload, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": data,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal push payload", map[string]interface{}{
			"session_id": sessionId,
			"type":       eventType,
			"error":      err.Error(),
		})
		return
	}

	// Sends happen under the read lock so the unregister path, which owns
	// closing Send, cannot close a channel mid-send. Slow clients are
	// collected and unregistered after the lock is released.
	var dead []*Client
	h.mu.RLock()
	for _, client := range h.clients[sessionId] {
		select {
		case client.Send <- payload:
		default:
			dead = append(dead, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range dead {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"session_id": sessionId})
		h.unregister <- client
	}
}
