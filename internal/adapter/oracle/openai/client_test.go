package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agentarium/internal/app/ports"
)

func completionsServer(t *testing.T, handle func(w http.ResponseWriter, req chatRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		handle(w, req)
	}))
}

func reply(w http.ResponseWriter, content string) {
	resp := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func TestClient_GenerateSendsPromptAndAuth(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		reply(w, "a decision")
	}))
	defer srv.Close()

	c := NewClient("secret", srv.URL, "test-model", "")
	text, err := c.Generate(context.Background(), "what now?", ports.GenerateOptions{
		Temperature:  0.7,
		MaxTokens:    300,
		SystemPrompt: "you are an agent",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "a decision" {
		t.Fatalf("unexpected text %q", text)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotReq.Model != "test-model" || gotReq.MaxTokens != 300 {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" || gotReq.Messages[1].Content != "what now?" {
		t.Fatalf("unexpected messages: %+v", gotReq.Messages)
	}
}

func TestClient_GenerateRetriesOnFallbackModel(t *testing.T) {
	var models []string
	srv := completionsServer(t, func(w http.ResponseWriter, req chatRequest) {
		models = append(models, req.Model)
		if req.Model == "primary" {
			http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusServiceUnavailable)
			return
		}
		reply(w, "fallback answer")
	})
	defer srv.Close()

	c := NewClient("", srv.URL, "primary", "backup")
	text, err := c.Generate(context.Background(), "hello", ports.GenerateOptions{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "fallback answer" {
		t.Fatalf("unexpected text %q", text)
	}
	if len(models) != 2 || models[0] != "primary" || models[1] != "backup" {
		t.Fatalf("unexpected model sequence %v", models)
	}
}

func TestClient_GenerateErrorWithoutFallback(t *testing.T) {
	srv := completionsServer(t, func(w http.ResponseWriter, _ chatRequest) {
		http.Error(w, "nope", http.StatusBadGateway)
	})
	defer srv.Close()

	c := NewClient("", srv.URL, "primary", "")
	if _, err := c.Generate(context.Background(), "hello", ports.GenerateOptions{}); err == nil {
		t.Fatal("expected error from upstream failure")
	}
}

func TestClient_GenerateRejectsEmptyChoices(t *testing.T) {
	srv := completionsServer(t, func(w http.ResponseWriter, _ chatRequest) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})
	defer srv.Close()

	c := NewClient("", srv.URL, "primary", "")
	if _, err := c.Generate(context.Background(), "hello", ports.GenerateOptions{}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestClient_GenerateSurfacesAPIError(t *testing.T) {
	srv := completionsServer(t, func(w http.ResponseWriter, _ chatRequest) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "invalid model"},
		})
	})
	defer srv.Close()

	c := NewClient("", srv.URL, "primary", "")
	if _, err := c.Generate(context.Background(), "hello", ports.GenerateOptions{}); err == nil {
		t.Fatal("expected error from API error payload")
	}
}
