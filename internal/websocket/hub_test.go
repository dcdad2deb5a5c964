package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"agri-assistant-be/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func (h *Hub) clientCount(sessionId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionId])
}

func registerClient(t *testing.T, h *Hub, sessionId string, buffer int) *Client {
	t.Helper()
	before := h.clientCount(sessionId)
	client := &Client{Hub: h, SessionId: sessionId, Send: make(chan []byte, buffer)}
	h.register <- client
	require.Eventually(t, func() bool {
		return h.clientCount(sessionId) == before+1
	}, time.Second, 5*time.Millisecond)
	return client
}

func TestHubPublishState(t *testing.T) {
	h := NewHub(nopLogger{})
	go h.Run()

	client := registerClient(t, h, "sess-1", 4)

	h.PublishState("sess-1", session.Flags{Processing: true})

	select {
	case payload := <-client.Send:
		var msg struct {
			Type string        `json:"type"`
			Data session.Flags `json:"data"`
		}
		require.NoError(t, json.Unmarshal(payload, &msg))
		assert.Equal(t, "state", msg.Type)
		assert.True(t, msg.Data.Processing)
	case <-time.After(time.Second):
		t.Fatal("no push received")
	}
}

func TestHubDropsSlowClientWithoutPanic(t *testing.T) {
	h := NewHub(nopLogger{})
	go h.Run()

	// An unbuffered Send with no reader is permanently full.
	slow := registerClient(t, h, "sess-1", 0)
	healthy := registerClient(t, h, "sess-1", 4)

	h.PublishState("sess-1", session.Flags{Listening: true})

	// The slow client is unregistered and its channel closed exactly once.
	require.Eventually(t, func() bool {
		return h.clientCount("sess-1") == 1
	}, time.Second, 5*time.Millisecond)

	_, open := <-slow.Send
	assert.False(t, open)

	// The hub stays alive: further pushes still reach the healthy client.
	h.PublishState("sess-1", session.Flags{Speaking: true})
	select {
	case <-healthy.Send:
	case <-time.After(time.Second):
		t.Fatal("healthy client no longer receives")
	}
	select {
	case <-healthy.Send:
	case <-time.After(time.Second):
		t.Fatal("hub stopped pushing after dropping slow client")
	}
}

func TestHubIgnoresUnknownSession(t *testing.T) {
	h := NewHub(nopLogger{})
	go h.Run()

	// Must not block or panic with no registered clients.
	h.PublishTranscript("nobody-here", "hello")
	h.PublishDocumentReady("nobody-here", "doc-1", "guide.pdf")
}
