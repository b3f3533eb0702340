package checkout_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sitesmith/sitesmith-api/internal/pkg/checkout"
)

func validRequest() checkout.CreateSessionRequest {
	return checkout.CreateSessionRequest{
		LineItem: checkout.LineItem{
			Name:       "Pro pack",
			UnitAmount: 1900,
			Currency:   "usd",
			Quantity:   1,
		},
		SuccessURL: "https://app.example/credits/success",
		CancelURL:  "https://app.example/credits/cancel",
		Metadata:   map[string]string{"transaction_id": "tx-1"},
		ExpiresAt:  time.Now().Add(30 * time.Minute).Unix(),
	}
}

func TestCreateSessionSuccess(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq checkout.CreateSessionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)

		json.NewEncoder(w).Encode(checkout.Session{
			ID:     "sess_1",
			URL:    "https://pay.example/s/sess_1",
			Status: "open",
		})
	}))
	defer server.Close()

	client := checkout.NewClient(checkout.Config{BaseURL: server.URL, APIKey: "sk_test"})

	session, err := client.CreateSession(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.ID != "sess_1" || session.URL != "https://pay.example/s/sess_1" {
		t.Errorf("session = %+v", session)
	}
	if gotPath != "/v1/checkout/sessions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer sk_test" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotReq.LineItem.UnitAmount != 1900 || gotReq.LineItem.Quantity != 1 {
		t.Errorf("line item = %+v", gotReq.LineItem)
	}
	if gotReq.Metadata["transaction_id"] != "tx-1" {
		t.Error("metadata must round-trip")
	}
}

func TestCreateSessionValidation(t *testing.T) {
	client := checkout.NewClient(checkout.Config{BaseURL: "https://x", APIKey: "k"})

	tests := []struct {
		name   string
		mutate func(*checkout.CreateSessionRequest)
	}{
		{"zero unit amount", func(r *checkout.CreateSessionRequest) { r.LineItem.UnitAmount = 0 }},
		{"zero quantity", func(r *checkout.CreateSessionRequest) { r.LineItem.Quantity = 0 }},
		{"missing success url", func(r *checkout.CreateSessionRequest) { r.SuccessURL = " " }},
		{"missing cancel url", func(r *checkout.CreateSessionRequest) { r.CancelURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			if _, err := client.CreateSession(context.Background(), req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSessionUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := checkout.NewClient(checkout.Config{BaseURL: server.URL, APIKey: "k"})

	if _, err := client.CreateSession(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}

func TestCreateSessionMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(checkout.Session{ID: "sess_2", Status: "open"})
	}))
	defer server.Close()

	client := checkout.NewClient(checkout.Config{BaseURL: server.URL, APIKey: "k"})

	if _, err := client.CreateSession(context.Background(), validRequest()); err == nil {
		t.Fatal("expected error when the session has no url")
	}
}
