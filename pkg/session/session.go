package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one conversational exchange unit. Turns are immutable once
// created; the session only ever appends.
type Turn struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Language  string    `json:"language,omitempty"` // empty assistant turns mirror the user's
	CreatedAt time.Time `json:"created_at"`
}

// NewTurn builds an immutable turn with a fresh id and timestamp.
func NewTurn(role, text, languageCode string) Turn {
	return Turn{
		Id:        uuid.New(),
		Role:      role,
		Text:      text,
		Language:  languageCode,
		CreatedAt: time.Now(),
	}
}

// DocumentHandle identifies a document previously ingested by the external
// retrieval service and available for grounding.
type DocumentHandle struct {
	Id          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Flags are the UI-visible state bits of a session.
type Flags struct {
	Processing bool `json:"processing"`
	Listening  bool `json:"listening"`
	Speaking   bool `json:"speaking"`
}

// Session holds the mutable state of one active conversation. Turn mutation
// happens only from the single turn-processing sequence; the mutex exists
// because UI reads (history, websocket pushes) arrive on other goroutines.
type Session struct {
	Id        string
	UserId    string
	CreatedAt time.Time

	mu                sync.RWMutex
	turns             []Turn
	activeDocument    *DocumentHandle
	preferredLanguage string
	flags             Flags
}

// New creates an empty session for a user.
func New(userId string) *Session {
	return &Session{
		Id:        uuid.NewString(),
		UserId:    userId,
		CreatedAt: time.Now(),
	}
}

// Append adds a turn to the conversation log.
func (s *Session) Append(turn Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

// Turns returns a snapshot copy of the conversation log, oldest first.
func (s *Session) Turns() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// LastTurn returns the most recent turn, if any.
func (s *Session) LastTurn() (Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// BeginProcessing acquires the single-turn processing gate. It returns false
// when another turn is already in flight; the caller must reject the new
// turn rather than queue it.
func (s *Session) BeginProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flags.Processing {
		return false
	}
	s.flags.Processing = true
	return true
}

// EndProcessing releases the processing gate.
func (s *Session) EndProcessing() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags.Processing = false
}

// SetListening records the speech-recognition state for UI consumption.
func (s *Session) SetListening(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags.Listening = on
}

// SetSpeaking records the speech-synthesis state for UI consumption.
func (s *Session) SetSpeaking(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags.Speaking = on
}

// Flags returns a snapshot of the UI state bits.
func (s *Session) Flags() Flags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags
}

// SetActiveDocument replaces the grounding document. A new document always
// replaces the previous one.
func (s *Session) SetActiveDocument(doc DocumentHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeDocument = &doc
}

// ClearActiveDocument removes the grounding document.
func (s *Session) ClearActiveDocument() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeDocument = nil
}

// ActiveDocument returns a copy of the grounding document handle, if set.
func (s *Session) ActiveDocument() (DocumentHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.activeDocument == nil {
		return DocumentHandle{}, false
	}
	return *s.activeDocument, true
}

// SetPreferredLanguage stores the user's language override or the last
// detected language code.
func (s *Session) SetPreferredLanguage(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferredLanguage = code
}

// PreferredLanguage returns the stored language code, or empty when unset.
func (s *Session) PreferredLanguage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preferredLanguage
}
