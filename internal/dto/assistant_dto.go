package dto

import (
	"time"

	"agri-assistant-be/pkg/speech"

	"github.com/google/uuid"
)

type TurnDTO struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Language  string    `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateSessionResponse struct {
	SessionId string  `json:"session_id"`
	Greeting  TurnDTO `json:"greeting"`
}

type SendChatRequest struct {
	// Message may arrive empty; the service answers with an explanatory
	// turn instead of calling the backend.
	Message string `json:"message" validate:"max=4000"`
	// Voice marks a turn that originated from speech recognition; the
	// reply is then spoken back when synthesis is available.
	Voice bool `json:"voice"`
	// Language is an optional explicit override; it always wins over
	// script detection.
	Language string `json:"language,omitempty" validate:"omitempty,oneof=en ml"`
}

type SendChatResponse struct {
	SessionId string   `json:"session_id"`
	Kind      string   `json:"kind"`
	Degraded  bool     `json:"degraded"`
	Sent      *TurnDTO `json:"sent,omitempty"`
	Reply     TurnDTO  `json:"reply"`
}

type ActiveDocumentDTO struct {
	Id          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type UploadDocumentResponse struct {
	Document *ActiveDocumentDTO `json:"document,omitempty"`
	Reply    TurnDTO            `json:"reply"`
	Degraded bool               `json:"degraded"`
}

type GetHistoryResponse struct {
	SessionId      string             `json:"session_id"`
	Turns          []TurnDTO          `json:"turns"`
	ActiveDocument *ActiveDocumentDTO `json:"active_document,omitempty"`
	Preferred      string             `json:"preferred_language,omitempty"`
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Generator bool              `json:"generator_healthy"`
	Speech    speech.Capability `json:"speech"`
}
