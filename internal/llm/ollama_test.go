package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// chatRequest is the subset of the Ollama /api/chat body the tests inspect.
type chatRequest struct {
	Model    string    `json:"model"`
	Format   string    `json:"format"`
	Messages []Message `json:"messages"`
}

// newOllamaServer answers /api/chat with content and records the last request.
func newOllamaServer(t *testing.T, content string, got *chatRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		reply := map[string]any{
			"model":      got.Model,
			"created_at": "2024-01-01T00:00:00Z",
			"message":    map[string]string{"role": "assistant", "content": content},
			"done":       true,
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		_ = json.NewEncoder(w).Encode(reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOllamaClient_DefaultBaseURL(t *testing.T) {
	client, err := NewOllamaClient("llama3", "")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if client.baseURL != defaultOllamaBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, defaultOllamaBaseURL)
	}
}

func TestNewOllamaClient_EmptyModel(t *testing.T) {
	_, err := NewOllamaClient("", "")
	if err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestOllamaClient_ChatJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "plain JSON", content: `{"text": "1/1(月) 終日", "notes": ["kept the date"]}`},
		{name: "fenced JSON", content: "Here you go:\n```json\n{\"text\": \"1/1(月) 終日\", \"notes\": [\"kept the date\"]}\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req chatRequest
			srv := newOllamaServer(t, tt.content, &req)

			client, err := NewOllamaClient("llama3", srv.URL)
			if err != nil {
				t.Fatalf("NewOllamaClient failed: %v", err)
			}

			var resp RephraseResponse
			messages := []Message{
				{Role: RoleSystem, Content: "rewrite"},
				{Role: RoleUser, Content: "1/1(月) 終日"},
			}
			if err := client.ChatJSON(context.Background(), messages, &resp); err != nil {
				t.Fatalf("ChatJSON failed: %v", err)
			}

			if req.Format != "json" {
				t.Errorf("request format = %q, want json", req.Format)
			}
			if req.Model != "llama3" {
				t.Errorf("request model = %q, want llama3", req.Model)
			}
			if len(req.Messages) != 2 || req.Messages[0].Role != RoleSystem || req.Messages[1].Role != RoleUser {
				t.Errorf("request messages = %+v", req.Messages)
			}
			if resp.Text != "1/1(月) 終日" || len(resp.Notes) != 1 {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestOllamaClient_Chat(t *testing.T) {
	var req chatRequest
	srv := newOllamaServer(t, "hello", &req)

	client, err := NewOllamaClient("llama3", srv.URL)
	if err != nil {
		t.Fatalf("NewOllamaClient failed: %v", err)
	}

	got, err := client.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("Chat = %q, want %q", got, "hello")
	}
	if req.Format != "" {
		t.Errorf("plain chat must not request JSON, format = %q", req.Format)
	}
}

func TestOllamaClient_ChatJSONInvalid(t *testing.T) {
	var req chatRequest
	srv := newOllamaServer(t, "not json at all", &req)

	client, err := NewOllamaClient("llama3", srv.URL)
	if err != nil {
		t.Fatalf("NewOllamaClient failed: %v", err)
	}

	var resp RephraseResponse
	err = client.ChatJSON(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, &resp)
	if err == nil {
		t.Fatalf("expected parse error, got response %+v", resp)
	}
}
