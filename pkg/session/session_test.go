package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAppendIsOrdered(t *testing.T) {
	s := New("user-1")

	s.Append(NewTurn(RoleUser, "first", "en"))
	s.Append(NewTurn(RoleAssistant, "second", ""))
	s.Append(NewTurn(RoleUser, "third", "en"))

	turns := s.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, "first", turns[0].Text)
	assert.Equal(t, "second", turns[1].Text)
	assert.Equal(t, "third", turns[2].Text)

	// Snapshot is a copy: mutating it must not affect the session.
	turns[0].Text = "mutated"
	assert.Equal(t, "first", s.Turns()[0].Text)
}

func TestProcessingGate(t *testing.T) {
	s := New("user-1")

	assert.True(t, s.BeginProcessing())
	assert.False(t, s.BeginProcessing(), "second turn must be rejected while one is in flight")

	s.EndProcessing()
	assert.True(t, s.BeginProcessing())
}

func TestActiveDocumentLifecycle(t *testing.T) {
	s := New("user-1")

	_, ok := s.ActiveDocument()
	assert.False(t, ok)

	s.SetActiveDocument(DocumentHandle{Id: "doc-42", DisplayName: "soil-report.pdf"})
	doc, ok := s.ActiveDocument()
	require.True(t, ok)
	assert.Equal(t, "doc-42", doc.Id)

	// A new document replaces the previous one.
	s.SetActiveDocument(DocumentHandle{Id: "doc-43", DisplayName: "pest-guide.pdf"})
	doc, _ = s.ActiveDocument()
	assert.Equal(t, "doc-43", doc.Id)

	s.ClearActiveDocument()
	_, ok = s.ActiveDocument()
	assert.False(t, ok)
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore()
	s := New("user-1")

	store.Save(s)
	got, found := store.Get(s.Id)
	require.True(t, found)
	assert.Equal(t, s.Id, got.Id)

	store.Delete(s.Id)
	_, found = store.Get(s.Id)
	assert.False(t, found)
}

func TestStoreEvictionHook(t *testing.T) {
	store := NewStoreTTL(20*time.Millisecond, 5*time.Millisecond)

	var mu sync.Mutex
	evicted := make(map[string]int)
	store.OnEvicted(func(sessionId string, _ *Session) {
		mu.Lock()
		evicted[sessionId]++
		mu.Unlock()
	})

	deleted := New("user-1")
	store.Save(deleted)
	store.Delete(deleted.Id)

	expired := New("user-2")
	store.Save(expired)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return evicted[expired.Id] == 1
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, evicted[deleted.Id])
}
