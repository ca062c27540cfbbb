package ai

import (
	"context"
	"fmt"

	"github.com/calmworks/stillness/backend/internal/model/conversation"
)

// Gateway abstracts the backing model provider behind a single capability.
// Implementations must enforce a bounded wait and return the first textual
// completion verbatim; parsing is the caller's job. Provider selection is
// a static configuration choice made at startup.
type Gateway interface {
	Complete(ctx context.Context, systemPrompt string, history []conversation.Message) (string, error)
}

// UpstreamError carries transport-level detail from a failed provider call
// so it can be logged, without exposing structure to API clients.
type UpstreamError struct {
	Provider string
	Status   int
	Body     string
	Err      error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Status != 0 && e.Body != "":
		return fmt.Sprintf("%s call failed with status %d: %s", e.Provider, e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s call failed: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("%s call failed", e.Provider)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
