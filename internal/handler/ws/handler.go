// Package ws exposes the interactive session channel. One WebSocket
// connection owns one session: phase, distress, and history live with the
// connection and vanish when it closes, keeping the orchestration core
// stateless.
package ws

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/calmworks/stillness/backend/internal/model/conversation"
	"github.com/calmworks/stillness/backend/internal/service/ai"
	"github.com/calmworks/stillness/backend/internal/session"
)

// Handler upgrades connections and drives per-connection sessions.
type Handler struct {
	orchestrator *ai.Orchestrator
	sessions     *session.Manager
	upgrader     websocket.Upgrader
}

// New creates the WebSocket session handler.
func New(orchestrator *ai.Orchestrator, sessions *session.Manager) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		sessions:     sessions,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the session channel.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session/ws", h.handleSession)
}

type inboundMessage struct {
	Type  string `json:"type"` // "start" | "message" | "reset"
	Topic string `json:"topic,omitempty"`
	Text  string `json:"text,omitempty"`
}

// outboundMessage carries one turn result to the client. Distress and
// safety are part of the contract on every turn: zero distress is the
// resolution signal, so neither field may be omitted.
type outboundMessage struct {
	Type     string        `json:"type"` // "turn" | "error"
	Message  string        `json:"message,omitempty"`
	Distress int           `json:"distress"`
	Safety   bool          `json:"safety"`
	Phase    session.Phase `json:"phase,omitempty"`
	Error    string        `json:"error,omitempty"`
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sess := h.sessions.Create()
	defer h.sessions.Remove(sess.ID)
	log.Printf("[ws] session %s connected", sess.ID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] session %s read error: %v", sess.ID, err)
			}
			return
		}

		outbound := h.dispatch(r.Context(), sess, inbound)
		if err := conn.WriteJSON(outbound); err != nil {
			log.Printf("[ws] session %s write error: %v", sess.ID, err)
			return
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, sess *session.Session, inbound inboundMessage) outboundMessage {
	switch inbound.Type {
	case "start":
		return h.handleStart(ctx, sess, inbound.Topic)
	case "message":
		return h.handleMessage(ctx, sess, inbound.Text)
	case "reset":
		return h.handleReset(ctx, sess, inbound.Topic)
	default:
		return errorMessage(sess, "unknown message type")
	}
}

// handleStart walks the session to Active and asks the persona to open.
func (h *Handler) handleStart(ctx context.Context, sess *session.Session, topicID string) outboundMessage {
	if sess.Phase == session.PhaseLanding {
		if err := sess.OpenTopicSelect(); err != nil {
			return errorMessage(sess, err.Error())
		}
	}
	if err := sess.Begin(topicID); err != nil {
		return errorMessage(sess, err.Error())
	}
	return h.runTurn(ctx, sess, sess.History)
}

// handleMessage runs one turn for the user's message. The message joins
// the session history only after the turn succeeds, so a failed turn
// leaves history untouched and retry lossless.
func (h *Handler) handleMessage(ctx context.Context, sess *session.Session, text string) outboundMessage {
	if sess.Phase != session.PhaseActive {
		return errorMessage(sess, "session is not active")
	}

	candidate := append(append([]conversation.Message(nil), sess.History...),
		conversation.Message{Role: conversation.RoleUser, Text: text})

	result, err := h.orchestrator.RunTurn(ctx, candidate, sess.TopicID)
	if err != nil {
		log.Printf("[ws] session %s turn failed: %v", sess.ID, err)
		return errorMessage(sess, "the character needs a moment")
	}

	if err := sess.RecordUser(text); err != nil {
		return errorMessage(sess, err.Error())
	}
	if err := sess.Apply(result); err != nil {
		return errorMessage(sess, err.Error())
	}
	return turnMessage(sess, result)
}

func (h *Handler) handleReset(ctx context.Context, sess *session.Session, topicID string) outboundMessage {
	if err := sess.Reset(topicID); err != nil {
		return errorMessage(sess, err.Error())
	}
	return h.runTurn(ctx, sess, sess.History)
}

// runTurn drives the opening turn of a fresh conversation.
func (h *Handler) runTurn(ctx context.Context, sess *session.Session, history []conversation.Message) outboundMessage {
	result, err := h.orchestrator.RunTurn(ctx, history, sess.TopicID)
	if err != nil {
		log.Printf("[ws] session %s turn failed: %v", sess.ID, err)
		return errorMessage(sess, "the character needs a moment")
	}
	if err := sess.Apply(result); err != nil {
		return errorMessage(sess, err.Error())
	}
	return turnMessage(sess, result)
}

func turnMessage(sess *session.Session, result conversation.TurnResult) outboundMessage {
	return outboundMessage{
		Type:     "turn",
		Message:  result.Message,
		Distress: result.Distress,
		Safety:   result.Safety,
		Phase:    sess.Phase,
	}
}

func errorMessage(sess *session.Session, detail string) outboundMessage {
	return outboundMessage{Type: "error", Error: detail, Phase: sess.Phase}
}
