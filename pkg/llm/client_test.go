package llm

import (
	"context"
	"emo-support-go/internal/config"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDecodeScores(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantJoy float64
		wantErr bool
	}{
		{"plain json", `{"joy":0.8,"sadness":0.1,"anger":0,"fear":0,"surprise":0.05,"love":0.05,"neutral":0}`, 0.8, false},
		{"wrapped json", "Here you go:\n{\"joy\":0.3,\"sadness\":0.7,\"anger\":0,\"fear\":0,\"surprise\":0,\"love\":0,\"neutral\":0}\n", 0.3, false},
		{"empty", "   ", 0, true},
		{"garbage", "not json", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores, err := decodeScores(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if scores["joy"] != tt.wantJoy {
				t.Errorf("expected joy %v, got %v", tt.wantJoy, scores["joy"])
			}
			if len(scores) != 7 {
				t.Errorf("expected 7 labels, got %d", len(scores))
			}
		})
	}
}

func TestSchema_ListsEveryLabel(t *testing.T) {
	props, ok := emotionScoresSchema["properties"].(map[string]interface{})
	if !ok {
		t.Fatalf("schema has no properties: %v", emotionScoresSchema)
	}
	for _, label := range []string{"joy", "sadness", "anger", "fear", "surprise", "love", "neutral"} {
		if _, ok := props[label]; !ok {
			t.Errorf("schema missing %q", label)
		}
	}
	if emotionScoresSchema["additionalProperties"] != false {
		t.Error("expected additionalProperties false")
	}
}

func TestScore_CallsResponsesAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if body["model"] != "test-model" {
			t.Errorf("expected model test-model, got %v", body["model"])
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":         "resp_1",
			"object":     "response",
			"created_at": 0,
			"status":     "completed",
			"model":      "test-model",
			"output": []any{
				map[string]any{
					"type":   "message",
					"id":     "msg_1",
					"status": "completed",
					"role":   "assistant",
					"content": []any{
						map[string]any{
							"type":        "output_text",
							"text":        `{"joy":0,"sadness":0.9,"anger":0,"fear":0.1,"surprise":0,"love":0,"neutral":0}`,
							"annotations": []any{},
						},
					},
				},
			},
		})
	}))
	defer server.Close()

	s := NewScorer(config.LLMConfig{APIKey: "sk-test", BaseURL: server.URL + "/", Model: "test-model"})
	scores, err := s.Score(context.Background(), "I feel so low")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scores["sadness"] != 0.9 {
		t.Errorf("expected sadness 0.9, got %v", scores["sadness"])
	}
}

func TestScore_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	s := NewScorer(config.LLMConfig{APIKey: "sk-bad", BaseURL: server.URL + "/", Model: "test-model"})
	if _, err := s.Score(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for API error response")
	}
}

func TestScore_EmptyModel(t *testing.T) {
	s := NewScorer(config.LLMConfig{APIKey: "sk-test"})
	if _, err := s.Score(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for empty model")
	}
}
