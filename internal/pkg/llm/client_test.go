package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sitesmith/sitesmith-api/internal/pkg/llm"
)

func TestCompleteSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "cmpl-1",
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "hello there"}},
			},
		})
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
	})

	reply, err := client.Complete(context.Background(), "be brief", "say hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "hello there" {
		t.Errorf("reply = %q, want %q", reply, "hello there")
	}

	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("model = %v", gotBody["model"])
	}
	messages, _ := gotBody["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
}

func TestCompleteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{BaseURL: server.URL, APIKey: "k", Model: "m"})

	_, err := client.Complete(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected error on non-2xx status")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "cmpl-2", "choices": []interface{}{}})
	}))
	defer server.Close()

	client := llm.NewClient(llm.Config{BaseURL: server.URL, APIKey: "k", Model: "m"})

	_, err := client.Complete(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestCompleteMissingConfig(t *testing.T) {
	client := llm.NewClient(llm.Config{BaseURL: "", APIKey: ""})

	if _, err := client.Complete(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error without api key")
	}
}
