package events

import "time"

const TopicDocumentIngested = "DOCUMENT_INGESTED"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event.
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// DocumentIngested fires after the external retrieval service accepted a
// document and the session's active document handle was set.
type DocumentIngested struct {
	SessionId   string    `json:"session_id"`
	UserId      string    `json:"user_id"`
	DocumentId  string    `json:"document_id"`
	DisplayName string    `json:"display_name"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e DocumentIngested) EventType() string {
	return TopicDocumentIngested
}

func (e DocumentIngested) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":   e.SessionId,
		"user_id":      e.UserId,
		"document_id":  e.DocumentId,
		"display_name": e.DisplayName,
	}
}

func (e DocumentIngested) Timestamp() time.Time {
	return e.OccurredAt
}
