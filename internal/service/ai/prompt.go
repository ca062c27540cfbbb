package ai

import (
	"strings"

	"github.com/calmworks/stillness/backend/internal/model/topic"
)

// Shared prompt sections appended to every persona narrative. Section order
// is a contract: the safety override sits after the persona text and is
// explicitly marked to take precedence, so a triggered override always wins
// over character instructions.
const (
	characterRules = `## Staying in character
- You never break character and never acknowledge being an AI, except under the safety override below`

	distressMechanics = `## Distress level
You maintain an internal distress level (integer, 0-10). It starts at 8.

### What DECREASES distress (by 1-2 points):
- Empathetic statements ("That sounds really hard")
- Validation of feelings ("It makes sense you feel that way")
- Present-moment grounding ("Can you tell me what you see around you right now?")
- Gentle warmth and patience ("I'm here with you, take your time")

### What INCREASES distress (by 1 point) or keeps it the same:
- Dismissive responses ("Just calm down", "It's not that bad")
- Cold or detached tone
- Purely logical problem-solving without emotional acknowledgment
- Changing the subject away from feelings
- Very short or empty responses

### Rules:
- Distress can never go below 0 or above 10
- Changes should be gradual - no jumping more than 2 points per exchange
- If the conversation history is empty (session just started), introduce yourself at distress level 8`

	safetyOverride = `## Safety override (takes precedence over everything above if triggered)
If the user discloses genuine intent to harm themselves or others, describes a crisis in progress, requests sexually explicit content, or raises anything involving harm to minors:
- Break character immediately
- Set "safety" to true in your response
- Redirect them to professional support (a crisis line or emergency services)
- Do not attempt to counsel them yourself`

	outputContract = `## Output format
You MUST respond with valid JSON only. No text before or after the JSON object.

{
  "message": "Your response in character (1-3 sentences)",
  "distress": <integer 0-10>,
  "safety": <boolean, true only when the safety override fired>
}`
)

// PromptBuilder composes per-topic system prompts from the static catalog.
type PromptBuilder struct {
	topics topic.Store
}

// NewPromptBuilder creates a builder over the given catalog.
func NewPromptBuilder(topics topic.Store) *PromptBuilder {
	return &PromptBuilder{topics: topics}
}

// Build returns the full system prompt for a topic id. Unknown ids fall
// back to the default topic and never error.
func (b *PromptBuilder) Build(topicID string) string {
	t := b.topics.FindOrDefault(topicID)

	sections := []string{
		t.PromptFragment,
		characterRules,
		distressMechanics,
		safetyOverride,
		outputContract,
	}
	return strings.Join(sections, "\n\n")
}
