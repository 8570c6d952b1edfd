package llm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"quorum/internal/llm"
)

func newTestClient(url string, opts ...llm.Option) *llm.Client {
	cfg := llm.Config{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "test-model",
	}
	opts = append(opts, llm.WithSleeper(func(time.Duration) {}))
	return llm.NewClient(cfg, opts...)
}

func TestCompleteReturnsContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"A brief summary."}}]}`))
	}))
	defer server.Close()

	content, err := newTestClient(server.URL).Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if content != "A brief summary." {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestCompleteJSONRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "upstream overloaded", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"ok\":true}"}}]}`))
	}))
	defer server.Close()

	content, err := newTestClient(server.URL).CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON failed: %v", err)
	}
	if !strings.Contains(content, `"ok"`) {
		t.Fatalf("unexpected content: %q", content)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestCompleteDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 attempt, got %d", calls.Load())
	}
}

func TestCompleteFailsAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "still broken", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(server.URL, llm.WithRetryMaxAttempts(2))
	_, err := client.Complete(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestCompleteRequiresPrompts(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")
	if _, err := client.Complete(context.Background(), "", "user"); err == nil {
		t.Fatal("expected error for missing system prompt")
	}
	if _, err := client.Complete(context.Background(), "system", ""); err == nil {
		t.Fatal("expected error for missing user prompt")
	}
}

func TestCompleteFallsBackToToolCallArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"","tool_calls":[{"function":{"name":"emit","arguments":"{\"items\":[]}"}}]}}]}`))
	}))
	defer server.Close()

	content, err := newTestClient(server.URL).CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON failed: %v", err)
	}
	if content != `{"items":[]}` {
		t.Fatalf("unexpected content: %q", content)
	}
}

func TestDecodeLLMJSON(t *testing.T) {
	type payload struct {
		Items []string `json:"items"`
	}

	cases := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain", `{"items":["a"]}`, false},
		{"fenced", "```json\n{\"items\":[\"a\"]}\n```", false},
		{"prose wrapped", `Here is the result: {"items":["a"]} hope that helps`, false},
		{"empty", "", true},
		{"not json", "no structured data here", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var parsed payload
			err := llm.DecodeLLMJSON(tc.content, &parsed)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLLMJSON failed: %v", err)
			}
			if len(parsed.Items) != 1 || parsed.Items[0] != "a" {
				t.Fatalf("unexpected payload: %#v", parsed)
			}
		})
	}
}

func TestDecodeLLMJSONArray(t *testing.T) {
	var parsed []map[string]string
	content := "```json\n[{\"task\":\"follow up\"}]\n```"
	if err := llm.DecodeLLMJSON(content, &parsed); err != nil {
		t.Fatalf("DecodeLLMJSON failed: %v", err)
	}
	if len(parsed) != 1 || parsed[0]["task"] != "follow up" {
		t.Fatalf("unexpected payload: %#v", parsed)
	}
}
