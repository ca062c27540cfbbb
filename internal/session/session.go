// Package session holds the client-side conversation state for surfaces
// that keep a live connection. The orchestration core stays stateless; a
// Session is the explicit owner of phase, distress, topic, and history.
package session

import (
	"errors"

	"github.com/google/uuid"

	"github.com/calmworks/stillness/backend/internal/model/conversation"
)

// Phase enumerates the session lifecycle. Transitions:
//
//	Landing -> TopicSelect -> Active -> {Resolved, SafetyExit}
//
// Active is re-entered from Resolved or SafetyExit via Reset.
type Phase string

const (
	PhaseLanding     Phase = "landing"
	PhaseTopicSelect Phase = "topic_select"
	PhaseActive      Phase = "active"
	PhaseResolved    Phase = "resolved"
	PhaseSafetyExit  Phase = "safety_exit"
)

var (
	ErrInvalidTransition = errors.New("invalid session phase transition")
	ErrNotActive         = errors.New("session is not active")
)

// Session owns everything a single conversation accumulates. It is not
// safe for concurrent use; each connection owns exactly one.
type Session struct {
	ID       string
	Phase    Phase
	Distress int
	TopicID  string
	History  []conversation.Message
}

// New creates a session on the landing phase.
func New() *Session {
	return &Session{
		ID:       uuid.NewString(),
		Phase:    PhaseLanding,
		Distress: conversation.InitialDistress,
	}
}

// OpenTopicSelect moves from the landing screen to topic selection.
func (s *Session) OpenTopicSelect() error {
	if s.Phase != PhaseLanding {
		return ErrInvalidTransition
	}
	s.Phase = PhaseTopicSelect
	return nil
}

// Begin starts a conversation on the chosen topic with fresh state.
func (s *Session) Begin(topicID string) error {
	if s.Phase != PhaseTopicSelect {
		return ErrInvalidTransition
	}
	s.start(topicID)
	return nil
}

// Reset re-enters Active from a terminal phase (or restarts a running
// session), discarding history and restoring the starting distress.
func (s *Session) Reset(topicID string) error {
	switch s.Phase {
	case PhaseActive, PhaseResolved, PhaseSafetyExit:
		s.start(topicID)
		return nil
	default:
		return ErrInvalidTransition
	}
}

func (s *Session) start(topicID string) {
	s.Phase = PhaseActive
	s.TopicID = topicID
	s.Distress = conversation.InitialDistress
	s.History = nil
}

// RecordUser appends the user's message to history.
func (s *Session) RecordUser(text string) error {
	if s.Phase != PhaseActive {
		return ErrNotActive
	}
	s.History = append(s.History, conversation.Message{Role: conversation.RoleUser, Text: text})
	return nil
}

// Apply folds one turn result into the session: the character's reply
// joins the history, distress updates, and the phase follows the signal:
// SafetyExit when the override fired, Resolved when distress reached zero.
func (s *Session) Apply(result conversation.TurnResult) error {
	if s.Phase != PhaseActive {
		return ErrNotActive
	}

	s.History = append(s.History, conversation.Message{Role: conversation.RoleCharacter, Text: result.Message})
	s.Distress = conversation.ClampDistress(result.Distress)

	switch {
	case result.Safety:
		s.Phase = PhaseSafetyExit
	case s.Distress == conversation.MinDistress:
		s.Phase = PhaseResolved
	}
	return nil
}
