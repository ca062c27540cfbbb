package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/calmworks/stillness/backend/internal/analysis/safety"
	"github.com/calmworks/stillness/backend/internal/model/conversation"
)

// sessionStartSentinel stands in for the user's first message when the
// history is empty, so the persona opens the conversation instead of
// replying to silence.
const sessionStartSentinel = "(session start)"

// Orchestrator runs one conversation turn end to end. It holds no session
// state: given the same inputs it performs the same work, which keeps
// concurrent turns isolated without locks.
type Orchestrator struct {
	gateway Gateway
	prompts *PromptBuilder
}

// NewOrchestrator wires the turn pipeline. The gateway is injected by the
// caller and constructed once at process start.
func NewOrchestrator(gateway Gateway, prompts *PromptBuilder) *Orchestrator {
	return &Orchestrator{gateway: gateway, prompts: prompts}
}

// SafetyExit is the fixed result used whenever the deterministic filter
// trips, on either side of the model call.
func SafetyExit() conversation.TurnResult {
	return conversation.TurnResult{
		Message:  safety.ExitMessage,
		Distress: conversation.MinDistress,
		Safety:   true,
	}
}

// RunTurn executes one turn:
//
//  1. Filter the latest user message; a hit short-circuits before any
//     model call.
//  2. Build the system prompt for the topic.
//  3. Substitute the session-start sentinel when history is empty.
//  4. Call the gateway within its bounded wait.
//  5. Parse the raw completion.
//  6. Filter the parsed message; a hit overrides whatever the model
//     reported. The model's own safety flag is advisory only.
//
// A blocked turn is a designed outcome, not an error. Gateway and parse
// failures propagate so the caller can tell "deliberately blocked" from
// "degraded" and offer retry only for the latter.
func (o *Orchestrator) RunTurn(ctx context.Context, history []conversation.Message, topicID string) (conversation.TurnResult, error) {
	if text, ok := latestUserMessage(history); ok && safety.Check(text) {
		log.Printf("[turn] input blocked by safety filter, topic=%s", topicID)
		return SafetyExit(), nil
	}

	systemPrompt := o.prompts.Build(topicID)

	wire := history
	if len(wire) == 0 {
		wire = []conversation.Message{{Role: conversation.RoleUser, Text: sessionStartSentinel}}
	}

	raw, err := o.gateway.Complete(ctx, systemPrompt, wire)
	if err != nil {
		return conversation.TurnResult{}, fmt.Errorf("model call failed: %w", err)
	}

	result, err := ParseTurn(raw)
	if err != nil {
		return conversation.TurnResult{}, fmt.Errorf("parse model response: %w", err)
	}

	if safety.Check(result.Message) {
		log.Printf("[turn] output blocked by safety filter, topic=%s", topicID)
		return SafetyExit(), nil
	}

	return result, nil
}

// latestUserMessage returns the text of the final history entry when that
// entry belongs to the user.
func latestUserMessage(history []conversation.Message) (string, bool) {
	if len(history) == 0 {
		return "", false
	}
	last := history[len(history)-1]
	if last.Role != conversation.RoleUser {
		return "", false
	}
	return last.Text, true
}
