package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatRequest is the payload sent to the chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply from the AI chat. Error bodies reuse the same
// shape with Reply carrying a user-facing message and Model omitted; Error
// carries raw diagnostic detail in development mode only.
type ChatResponse struct {
	Reply string `json:"reply"`
	Model string `json:"model,omitempty"`
	Error string `json:"error,omitempty"`
}

// ModelInfo describes one provider model as returned by the listing
// endpoint.
type ModelInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// ModelsResponse is the body of GET /api/models.
type ModelsResponse struct {
	Success bool        `json:"success"`
	Models  []ModelInfo `json:"models,omitempty"`
	Count   int         `json:"count"`
	Error   string      `json:"error,omitempty"`
}

// ChatLog is one persisted chat exchange: the user message, the reply, and
// the candidate model that produced it.
type ChatLog struct {
	ID        uuid.UUID `json:"id"`
	RequestID string    `json:"request_id,omitempty"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}
