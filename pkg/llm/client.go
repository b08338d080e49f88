// Package llm provides an emotion scorer backed by a Large Language Model.
package llm

import (
	"context"
	"emo-support-go/internal/config"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const scorerInstructions = `You classify the emotional tone of a single chat message written by a user of an emotional-support app.
Return a probability between 0 and 1 for every emotion field. The values should sum to roughly 1.
Only score the emotions in the schema. Do not add commentary.`

// emotionScores 的字段与情绪词表一一对应。
type emotionScores struct {
	Joy      float64 `json:"joy" jsonschema:"description=Probability the message expresses joy"`
	Sadness  float64 `json:"sadness" jsonschema:"description=Probability the message expresses sadness"`
	Anger    float64 `json:"anger" jsonschema:"description=Probability the message expresses anger"`
	Fear     float64 `json:"fear" jsonschema:"description=Probability the message expresses fear or anxiety"`
	Surprise float64 `json:"surprise" jsonschema:"description=Probability the message expresses surprise"`
	Love     float64 `json:"love" jsonschema:"description=Probability the message expresses love or affection"`
	Neutral  float64 `json:"neutral" jsonschema:"description=Probability the message is emotionally neutral"`
}

func (e emotionScores) toMap() map[string]float64 {
	return map[string]float64{
		"joy":      e.Joy,
		"sadness":  e.Sadness,
		"anger":    e.Anger,
		"fear":     e.Fear,
		"surprise": e.Surprise,
		"love":     e.Love,
		"neutral":  e.Neutral,
	}
}

var emotionScoresSchema = generateSchema[emotionScores]()

// Scorer scores a message against the emotion vocabulary using the Responses API.
type Scorer struct {
	client *openai.Client
	model  string
}

// NewScorer creates a Scorer from config. 调用失败不重试，由调用方退回关键词匹配。
func NewScorer(cfg config.LLMConfig) *Scorer {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &Scorer{client: &client, model: cfg.Model}
}

// Score returns a probability per emotion label.
func (s *Scorer) Score(ctx context.Context, text string) (map[string]float64, error) {
	if s.model == "" {
		return nil, errors.New("llm scorer: model is empty")
	}

	params := responses.ResponseNewParams{
		Model:           s.model,
		MaxOutputTokens: openai.Int(200),
		Instructions:    openai.String(scorerInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "EmotionScores",
					Schema:      emotionScoresSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Emotion probabilities"),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := s.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("llm scorer: %w", err)
	}
	return decodeScores(resp.OutputText())
}

// decodeScores 解析模型输出，容忍 JSON 前后的多余文本。
func decodeScores(outputText string) (map[string]float64, error) {
	s := strings.TrimSpace(outputText)
	if s == "" {
		return nil, errors.New("llm scorer: empty output")
	}
	if start, end := strings.Index(s, "{"), strings.LastIndex(s, "}"); start >= 0 && end > start {
		s = s[start : end+1]
	}
	var out emotionScores
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("llm scorer: unmarshal scores: %w", err)
	}
	return out.toMap(), nil
}

func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	b, err := schema.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		panic(err)
	}
	m["additionalProperties"] = false
	return m
}
