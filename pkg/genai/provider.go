package genai

import "context"

// Request is one generation call to the backend. Context is the optional
// grounding blob; the backend must tolerate its absence.
type Request struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"`
}

// Response is the backend's reply envelope. When Success is false the
// backend may still suggest its own fallback text.
type Response struct {
	Success          bool   `json:"success"`
	Text             string `json:"response,omitempty"`
	FallbackResponse string `json:"fallbackResponse,omitempty"`
	Language         string `json:"language,omitempty"`
}

// Provider is the contract for the generative-text backend.
type Provider interface {
	// Generate sends one composed prompt and returns the reply text.
	Generate(ctx context.Context, req Request) (string, error)

	// Probe performs a lightweight liveness check against the backend.
	Probe(ctx context.Context) error
}
