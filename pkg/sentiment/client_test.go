package sentiment

import (
	"context"
	"emo-support-go/internal/config"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestScore_NestedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/test/emotion" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer hf-key" {
			t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
		}
		var req classifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Inputs != "I am thrilled" {
			t.Errorf("unexpected inputs %q", req.Inputs)
		}
		w.Write([]byte(`[[{"label":"joy","score":0.91},{"label":"Sadness","score":0.02}]]`))
	}))
	defer server.Close()

	c := NewClient(config.InferenceConfig{BaseURL: server.URL + "/", APIKey: "hf-key", Model: "test/emotion"})
	scores, err := c.Score(context.Background(), "I am thrilled")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores["joy"] != 0.91 {
		t.Errorf("expected joy 0.91, got %v", scores["joy"])
	}
	if scores["sadness"] != 0.02 {
		t.Errorf("expected lower-cased sadness 0.02, got %v", scores["sadness"])
	}
}

func TestScore_FlatResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"label":"fear","score":0.7}]`))
	}))
	defer server.Close()

	c := NewClient(config.InferenceConfig{BaseURL: server.URL, Model: "m"})
	scores, err := c.Score(context.Background(), "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores["fear"] != 0.7 {
		t.Errorf("expected fear 0.7, got %v", scores["fear"])
	}
}

func TestScore_Non200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Model is currently loading"}`))
	}))
	defer server.Close()

	c := NewClient(config.InferenceConfig{BaseURL: server.URL, Model: "m"})
	if _, err := c.Score(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestScore_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(config.InferenceConfig{BaseURL: server.URL, Model: "m"})
	if _, err := c.Score(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for empty classification")
	}
}
