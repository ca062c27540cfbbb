package turn

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calmworks/stillness/backend/internal/model/conversation"
	"github.com/calmworks/stillness/backend/internal/service/ai"
	"github.com/calmworks/stillness/backend/pkg/utils"
)

// clientErrorMessage is the only failure detail exposed to callers. The
// client keeps its history and offers retry; diagnostics go to the log.
const clientErrorMessage = "the character needs a moment"

// Handler exposes the stateless turn endpoint: full history in, one
// TurnResult out.
type Handler struct {
	orchestrator *ai.Orchestrator
}

// New creates the turn handler.
func New(orchestrator *ai.Orchestrator) *Handler {
	return &Handler{orchestrator: orchestrator}
}

// RegisterRoutes mounts the chat route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Messages []conversation.Message `json:"messages"`
		Topic    string                 `json:"topic"`
	}

	// Absent body or null/missing messages means a fresh session, not a
	// client error.
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.orchestrator.RunTurn(r.Context(), payload.Messages, payload.Topic)
	if err != nil {
		if errors.Is(err, ai.ErrMalformedResponse) {
			log.Printf("[chat] contract violation: %v", err)
		} else {
			log.Printf("[chat] upstream failure: %v", err)
		}
		utils.RespondError(w, http.StatusInternalServerError, clientErrorMessage)
		return
	}

	utils.RespondJSON(w, http.StatusOK, result)
}
