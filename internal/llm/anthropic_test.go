package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewAnthropicProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewAnthropicProvider(Config{})
	if err == nil {
		t.Fatal("Expected an error without an API key")
	}
}

func TestAnthropicProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected api key header, got %q", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("Expected anthropic-version header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":" What date was the incident? "}],"model":"claude-3-5-sonnet-20241022","stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewAnthropicProvider failed: %v", err)
	}
	if provider.Name() != "anthropic" {
		t.Errorf("Expected provider name anthropic, got %q", provider.Name())
	}

	text, err := provider.Complete(context.Background(), CompleteRequest{Prompt: "Ask about the date."})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "What date was the incident?" {
		t.Errorf("Expected trimmed response text, got %q", text)
	}
}

func TestAnthropicProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"try later"}}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewAnthropicProvider failed: %v", err)
	}

	_, err = provider.Complete(context.Background(), CompleteRequest{Prompt: "Ask about the date."})
	if err == nil {
		t.Fatal("Expected an error on HTTP 429")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate_limit_error") {
		t.Errorf("Expected status and error type in message, got %v", err)
	}
	// The client layer degrades on this class of error rather than failing.
	if !isRateLimited(err) {
		t.Error("Expected the error to classify as rate limited")
	}
}
