package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/calmworks/stillness/backend/internal/model/conversation"
)

// ErrMalformedResponse marks model output that failed the JSON output
// contract. There is no local recovery for this: the turn fails.
var ErrMalformedResponse = errors.New("model response violates output contract")

// fencePattern captures the inner text of a markdown code fence, with or
// without a language tag.
var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// stripFence returns the fenced inner text when the model wrapped its
// output in a code block, otherwise the trimmed raw text.
func stripFence(raw string) string {
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}

// ParseTurn converts raw model output into a TurnResult.
//
// Field handling is deliberately asymmetric: a JSON syntax failure is fatal
// (the contract itself is broken), while individual fields degrade
// gracefully: a missing message becomes "...", an unusable distress value
// falls back to the still-distressed default, and safety is true only when
// the model produced the literal boolean.
func ParseTurn(raw string) (conversation.TurnResult, error) {
	cleaned := stripFence(raw)

	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return conversation.TurnResult{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return conversation.TurnResult{
		Message:  extractMessage(fields),
		Distress: extractDistress(fields),
		Safety:   fields["safety"] == true,
	}, nil
}

// extractMessage tries message, response, then text; the first non-empty
// string wins, otherwise a placeholder keeps the turn usable.
func extractMessage(fields map[string]any) string {
	for _, key := range []string{"message", "response", "text"} {
		if s, ok := fields[key].(string); ok && s != "" {
			return s
		}
	}
	return "..."
}

// extractDistress coerces the distress field to a number, rounds it, and
// clamps it into range. Anything non-numeric falls back to the
// still-distressed default rather than failing the turn.
func extractDistress(fields map[string]any) int {
	v, ok := coerceNumber(fields["distress"])
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return conversation.InitialDistress
	}
	return conversation.ClampDistress(int(math.Round(v)))
}

func coerceNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
