package topic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	topicmodel "github.com/calmworks/stillness/backend/internal/model/topic"
)

func TestListTopics(t *testing.T) {
	r := chi.NewRouter()
	New(topicmodel.NewMemoryStore(topicmodel.Seed())).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/topics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var topics []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &topics); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(topics) != len(topicmodel.Seed()) {
		t.Fatalf("expected %d topics, got %d", len(topicmodel.Seed()), len(topics))
	}
	if topics[0]["id"] != topicmodel.Seed()[0].ID {
		t.Fatal("catalog order must match the seed order")
	}
	for _, item := range topics {
		for _, field := range []string{"id", "character", "name", "description"} {
			if _, ok := item[field]; !ok {
				t.Fatalf("topic missing field %s: %v", field, item)
			}
		}
	}
}

func TestListTopicsNeverLeaksPromptFragment(t *testing.T) {
	r := chi.NewRouter()
	New(topicmodel.NewMemoryStore(topicmodel.Seed())).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/topics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	body := resp.Body.String()
	if strings.Contains(body, "promptFragment") || strings.Contains(body, "You are Aria") {
		t.Fatal("prompt fragment must not be serialized")
	}
}
