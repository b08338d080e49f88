// Package sentiment provides a client for hosted text-classification models.
package sentiment

import (
	"bytes"
	"context"
	"emo-support-go/internal/config"
	"emo-support-go/pkg/log"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client scores a text against the labels of a pre-trained classification model.
type Client interface {
	Score(ctx context.Context, text string) (map[string]float64, error)
}

type inferenceClient struct {
	cfg    config.InferenceConfig
	client *http.Client
}

// NewClient creates a client for a Hugging Face style inference endpoint.
// 超时由调用方通过 ctx 控制。
func NewClient(cfg config.InferenceConfig) Client {
	return &inferenceClient{
		cfg:    cfg,
		client: &http.Client{},
	}
}

type classifyRequest struct {
	Inputs  string         `json:"inputs"`
	Options map[string]any `json:"options,omitempty"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Score posts the text to {base_url}/models/{model} and returns label → score.
func (c *inferenceClient) Score(ctx context.Context, text string) (map[string]float64, error) {
	reqBytes, err := json.Marshal(classifyRequest{
		Inputs:  text,
		Options: map[string]any{"wait_for_model": false},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classify request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + c.cfg.Model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call classify api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read classify response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classify api returned non-200 status: %s, body: %s", resp.Status, string(body))
	}

	scores, err := decodeScores(body)
	if err != nil {
		return nil, err
	}
	log.Debugf("[SentimentClient] model=%s labels=%d", c.cfg.Model, len(scores))
	return scores, nil
}

// decodeScores 兼容 [[{label,score}]] 与 [{label,score}] 两种返回格式。
func decodeScores(body []byte) (map[string]float64, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return toMap(nested[0])
	}
	var flat []labelScore
	if err := json.Unmarshal(body, &flat); err != nil {
		return nil, fmt.Errorf("failed to decode classify response: %w", err)
	}
	return toMap(flat)
}

func toMap(items []labelScore) (map[string]float64, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("received empty classification from api")
	}
	scores := make(map[string]float64, len(items))
	for _, it := range items {
		scores[strings.ToLower(it.Label)] = it.Score
	}
	return scores, nil
}
