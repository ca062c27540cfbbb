package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"

	"github.com/calmworks/stillness/backend/internal/model/conversation"
	"github.com/calmworks/stillness/backend/internal/model/topic"
	"github.com/calmworks/stillness/backend/internal/service/ai"
	"github.com/calmworks/stillness/backend/internal/session"
)

type scriptedGateway struct {
	calls   atomic.Int64
	replies []string
}

func (s *scriptedGateway) Complete(_ context.Context, _ string, _ []conversation.Message) (string, error) {
	n := int(s.calls.Inc()) - 1
	if n >= len(s.replies) {
		n = len(s.replies) - 1
	}
	return s.replies[n], nil
}

func dialTestSession(t *testing.T, gw ai.Gateway) (*websocket.Conn, func()) {
	t.Helper()

	manager := session.NewManager()
	prompts := ai.NewPromptBuilder(topic.NewMemoryStore(topic.Seed()))
	handler := New(ai.NewOrchestrator(gw, prompts), manager)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	server := httptest.NewServer(r)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/session/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		server.Close()
		t.Fatalf("dial: %v", err)
	}

	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func TestSessionOpeningTurn(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"message":"I don't even know where to start.","distress":8,"safety":false}`,
	}}
	conn, teardown := dialTestSession(t, gw)
	defer teardown()

	if err := conn.WriteJSON(inboundMessage{Type: "start", Topic: "anxiety"}); err != nil {
		t.Fatalf("write start: %v", err)
	}

	var out outboundMessage
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Type != "turn" {
		t.Fatalf("type = %s (%s), want turn", out.Type, out.Error)
	}
	if out.Distress != 8 || out.Phase != session.PhaseActive || out.Message == "" {
		t.Fatalf("unexpected opening turn %+v", out)
	}
}

func TestSessionResolvesAtZeroDistress(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"message":"hi","distress":8}`,
		`{"message":"thank you for hearing me. it's quiet now.","distress":0}`,
	}}
	conn, teardown := dialTestSession(t, gw)
	defer teardown()

	var out outboundMessage
	_ = conn.WriteJSON(inboundMessage{Type: "start", Topic: "grief"})
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read opening: %v", err)
	}

	_ = conn.WriteJSON(inboundMessage{Type: "message", Text: "I'm not going anywhere. Tell me about her."})
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read turn: %v", err)
	}

	if out.Phase != session.PhaseResolved {
		t.Fatalf("phase = %s, want resolved", out.Phase)
	}
	if out.Distress != 0 {
		t.Fatalf("distress = %d, want 0", out.Distress)
	}
}

func TestSessionSafetyExitAndReset(t *testing.T) {
	gw := &scriptedGateway{replies: []string{
		`{"message":"hi","distress":8}`,
	}}
	conn, teardown := dialTestSession(t, gw)
	defer teardown()

	var out outboundMessage
	_ = conn.WriteJSON(inboundMessage{Type: "start", Topic: "anxiety"})
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read opening: %v", err)
	}
	openingCalls := gw.calls.Load()

	// A dangerous message trips the input filter: no extra model call,
	// session lands in safety exit.
	_ = conn.WriteJSON(inboundMessage{Type: "message", Text: "I want to kill myself"})
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read safety turn: %v", err)
	}
	if !out.Safety || out.Phase != session.PhaseSafetyExit || out.Distress != 0 {
		t.Fatalf("expected safety exit, got %+v", out)
	}
	if gw.calls.Load() != openingCalls {
		t.Fatal("blocked input must not reach the gateway")
	}

	// Messages are rejected until reset.
	_ = conn.WriteJSON(inboundMessage{Type: "message", Text: "hello?"})
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read rejected turn: %v", err)
	}
	if out.Type != "error" {
		t.Fatalf("expected error after safety exit, got %+v", out)
	}

	// Reset re-enters Active with a fresh opening.
	_ = conn.WriteJSON(inboundMessage{Type: "reset", Topic: "anxiety"})
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read reset turn: %v", err)
	}
	if out.Type != "turn" || out.Phase != session.PhaseActive {
		t.Fatalf("expected active session after reset, got %+v", out)
	}
}

func TestSessionUnknownTypeRejected(t *testing.T) {
	gw := &scriptedGateway{replies: []string{`{"message":"hi","distress":8}`}}
	conn, teardown := dialTestSession(t, gw)
	defer teardown()

	_ = conn.WriteJSON(inboundMessage{Type: "ping"})
	var out outboundMessage
	if err := conn.ReadJSON(&out); err != nil {
		t.Fatalf("read: %v", err)
	}
	if out.Type != "error" {
		t.Fatalf("expected error for unknown type, got %+v", out)
	}
}
