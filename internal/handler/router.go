package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	topicHandler "github.com/calmworks/stillness/backend/internal/handler/topic"
	turnHandler "github.com/calmworks/stillness/backend/internal/handler/turn"
	wsHandler "github.com/calmworks/stillness/backend/internal/handler/ws"
	middlewarePkg "github.com/calmworks/stillness/backend/internal/middleware"
	topicModel "github.com/calmworks/stillness/backend/internal/model/topic"
	"github.com/calmworks/stillness/backend/internal/service/ai"
	"github.com/calmworks/stillness/backend/internal/session"
	"github.com/calmworks/stillness/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services. orchestrator may be nil
// when no model credentials are configured; turn routes then answer 503
// while the catalog stays available. rateLimit is optional.
func NewRouter(topics topicModel.Store, orchestrator *ai.Orchestrator, sessions *session.Manager, rateLimit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)
	if rateLimit != nil {
		r.Use(rateLimit)
	}

	r.Route("/api", func(api chi.Router) {
		topicHandler.New(topics).RegisterRoutes(api)

		if orchestrator == nil {
			api.Post("/chat", handleModelUnavailable)
			api.Get("/session/ws", handleModelUnavailable)
			return
		}

		turnHandler.New(orchestrator).RegisterRoutes(api)
		wsHandler.New(orchestrator, sessions).RegisterRoutes(api)
	})

	return r
}

func handleModelUnavailable(w http.ResponseWriter, r *http.Request) {
	utils.RespondError(w, http.StatusServiceUnavailable, "model backend not configured")
}
