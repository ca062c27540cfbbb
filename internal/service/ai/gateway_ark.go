package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/calmworks/stillness/backend/internal/model/conversation"
)

// ArkGateway drives a cloud-hosted chat model through an eino chain:
// system prompt plus conversation history in, one completion out.
type ArkGateway struct {
	chain   compose.Runnable[map[string]any, *schema.Message]
	timeout time.Duration
}

// NewArkGateway compiles the prompt/model chain once and reuses it for
// every turn. The chain itself is stateless; concurrent calls are safe.
func NewArkGateway(ctx context.Context, chatModel model.ChatModel, timeout time.Duration) (*ArkGateway, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", false),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ArkGateway{chain: runnable, timeout: timeout}, nil
}

// Complete runs one bounded model call and returns the completion text.
func (g *ArkGateway) Complete(ctx context.Context, systemPrompt string, history []conversation.Message) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.chain.Invoke(callCtx, map[string]any{
		"system":  systemPrompt,
		"history": toSchemaMessages(history),
	})
	if err != nil {
		return "", &UpstreamError{Provider: "ark", Err: err}
	}

	return response.Content, nil
}

// toSchemaMessages maps client roles onto the wire roles the model
// expects: the character side becomes the assistant.
func toSchemaMessages(history []conversation.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case conversation.RoleUser:
			messages = append(messages, schema.UserMessage(msg.Text))
		case conversation.RoleCharacter:
			messages = append(messages, schema.AssistantMessage(msg.Text, nil))
		}
	}
	return messages
}
