package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/calmworks/stillness/backend/internal/model/conversation"
)

// OllamaGateway talks to a locally hosted model through the Ollama chat
// API. The system prompt travels as a leading system-role message, and the
// request pins stream=false with JSON-formatted output so the response
// arrives as a single parseable object.
type OllamaGateway struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaGateway builds a gateway for the given Ollama endpoint. The
// timeout bounds the whole call including body read.
func NewOllamaGateway(baseURL, model string, timeout time.Duration) *OllamaGateway {
	return &OllamaGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Format   string              `json:"format"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
}

// Complete sends one chat request and returns the completion text
// verbatim. Non-2xx responses surface the response body for diagnostics.
func (g *OllamaGateway) Complete(ctx context.Context, systemPrompt string, history []conversation.Message) (string, error) {
	messages := make([]ollamaChatMessage, 0, len(history)+1)
	messages = append(messages, ollamaChatMessage{Role: "system", Content: systemPrompt})
	for _, msg := range history {
		switch msg.Role {
		case conversation.RoleUser:
			messages = append(messages, ollamaChatMessage{Role: "user", Content: msg.Text})
		case conversation.RoleCharacter:
			messages = append(messages, ollamaChatMessage{Role: "assistant", Content: msg.Text})
		}
	}

	payload, err := json.Marshal(ollamaChatRequest{
		Model:    g.model,
		Messages: messages,
		Stream:   false,
		Format:   "json",
	})
	if err != nil {
		return "", fmt.Errorf("encode ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: "ollama", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UpstreamError{Provider: "ollama", Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &UpstreamError{Provider: "ollama", Status: resp.StatusCode, Body: string(body)}
	}

	var parsed ollamaChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &UpstreamError{Provider: "ollama", Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return parsed.Message.Content, nil
}
