package topic

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/calmworks/stillness/backend/internal/model/topic"
	"github.com/calmworks/stillness/backend/pkg/utils"
)

// Handler serves the topic catalog.
type Handler struct {
	topics topic.Store
}

// New creates the topic handler.
func New(topics topic.Store) *Handler {
	return &Handler{topics: topics}
}

// RegisterRoutes mounts the catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/topics", h.handleListTopics)
}

// handleListTopics returns the catalog in order, without prompt fragments.
func (h *Handler) handleListTopics(w http.ResponseWriter, r *http.Request) {
	items := h.topics.List()
	public := make([]topic.PublicTopic, 0, len(items))
	for _, item := range items {
		public = append(public, item.Public())
	}
	utils.RespondJSON(w, http.StatusOK, public)
}
