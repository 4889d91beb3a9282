package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"assistant-backend/internal/llm"
	"assistant-backend/internal/models"
)

// User-facing bodies for the chat endpoint. Raw provider detail stays in
// the server logs; clients only ever see these.
const (
	msgInvalidFormat = "Invalid message format."
	msgConfigError   = "Server configuration error. Please contact admin."
	msgUnavailable   = "AI service temporarily unavailable. Please try again."
)

// Dispatcher produces the first successful reply across the candidate
// models.
type Dispatcher interface {
	Dispatch(ctx context.Context, prompt string) (llm.Result, error)
}

// ModelLister enumerates the models available to the configured API key.
type ModelLister interface {
	ListModels(ctx context.Context) ([]models.ModelInfo, error)
}

// ChatLogStore persists chat exchanges.
type ChatLogStore interface {
	Create(ctx context.Context, entry *models.ChatLog) error
	ListRecent(ctx context.Context, limit int) ([]*models.ChatLog, error)
}

type ChatHandler struct {
	dispatcher Dispatcher
	lister     ModelLister
	chatLogs   ChatLogStore
	dev        bool
}

// NewChatHandler wires the chat endpoint. dispatcher and lister are nil
// when no provider credential was configured; chatLogs is nil when no
// database was configured.
func NewChatHandler(d Dispatcher, lister ModelLister, chatLogs ChatLogStore, dev bool) *ChatHandler {
	return &ChatHandler{
		dispatcher: d,
		lister:     lister,
		chatLogs:   chatLogs,
		dev:        dev,
	}
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{Reply: msgInvalidFormat})
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, models.ChatResponse{Reply: msgInvalidFormat})
		return
	}

	if h.dispatcher == nil {
		writeJSON(w, http.StatusInternalServerError, models.ChatResponse{Reply: msgConfigError})
		return
	}

	res, err := h.dispatcher.Dispatch(r.Context(), req.Message)
	if err != nil {
		log.Printf("✗ All models failed: %v", err)

		resp := models.ChatResponse{Reply: msgUnavailable}
		var exhausted *llm.ExhaustedError
		if h.dev && errors.As(err, &exhausted) && exhausted.Last != nil {
			resp.Error = exhausted.Last.Error()
		}
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	if h.chatLogs != nil {
		entry := &models.ChatLog{
			RequestID: r.Header.Get("X-Request-ID"),
			Message:   req.Message,
			Reply:     res.Text,
			Model:     res.Model,
		}
		if err := h.chatLogs.Create(r.Context(), entry); err != nil {
			// Logging is best-effort; the reply still goes out.
			log.Printf("failed to persist chat log: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, models.ChatResponse{Reply: res.Text, Model: res.Model})
}

// ListModels handles GET /api/models.
func (h *ChatHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	if h.lister == nil {
		writeJSON(w, http.StatusInternalServerError, models.ModelsResponse{
			Success: false,
			Error:   msgConfigError,
		})
		return
	}

	available, err := h.lister.ListModels(r.Context())
	if err != nil {
		log.Printf("✗ Failed to list models: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ModelsResponse{
			Success: false,
			Error:   "Failed to fetch available models.",
		})
		return
	}

	writeJSON(w, http.StatusOK, models.ModelsResponse{
		Success: true,
		Models:  available,
		Count:   len(available),
	})
}

// History handles GET /api/history. Only routed when a database is
// configured.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be between 1 and 500"})
			return
		}
		limit = n
	}

	entries, err := h.chatLogs.ListRecent(r.Context(), limit)
	if err != nil {
		log.Printf("failed to load chat history: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to load history."})
		return
	}
	if entries == nil {
		entries = []*models.ChatLog{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"history": entries,
		"count":   len(entries),
	})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
