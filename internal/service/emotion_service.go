// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"crypto/sha256"
	"emo-support-go/internal/model"
	"emo-support-go/pkg/log"
	"emo-support-go/pkg/metrics"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// EmotionVocabulary 是固定的情绪词表，顺序决定平分时的取舍。
var EmotionVocabulary = []string{"joy", "sadness", "anger", "fear", "surprise", "love", "neutral"}

var emotionKeywords = map[string][]string{
	"joy":      {"happy", "excited", "joyful", "great", "good", "amazing", "wonderful"},
	"sadness":  {"sad", "unhappy", "depressed", "miserable", "terrible", "awful", "crying"},
	"anger":    {"angry", "mad", "furious", "annoyed", "pissed", "hate"},
	"fear":     {"scared", "afraid", "worried", "anxious", "nervous", "panic"},
	"surprise": {"surprised", "shocked", "amazed", "unexpected"},
	"love":     {"love", "caring", "affection", "loving", "romantic"},
	"neutral":  {"okay", "fine", "alright", "normal", "whatever"},
}

// errNoKnownLabels 表示外部模型返回的标签都不在词表内。
var errNoKnownLabels = errors.New("no vocabulary label in scorer output")

// EmotionScorer 是外部情绪分类能力，返回每个标签的分数。
type EmotionScorer interface {
	Score(ctx context.Context, text string) (map[string]float64, error)
}

// EmotionService 定义了情绪识别的接口。Detect 不返回错误，外部模型失败时退回关键词匹配。
type EmotionService interface {
	Detect(ctx context.Context, text string) model.EmotionResult
}

// KeywordEmotionClassifier 通过关键词计数识别情绪，结果确定且总是可用。
type KeywordEmotionClassifier struct{}

// Detect 统计每个标签命中的关键词数量，按词表顺序以严格大于取最大值。
func (KeywordEmotionClassifier) Detect(text string) model.EmotionResult {
	lower := strings.ToLower(text)
	scores := make(map[string]float64, len(EmotionVocabulary))
	for _, label := range EmotionVocabulary {
		var count float64
		for _, kw := range emotionKeywords[label] {
			if strings.Contains(lower, kw) {
				count++
			}
		}
		scores[label] = count
	}
	return model.EmotionResult{
		Label:  argmax(scores),
		Scores: scores,
		Source: model.EmotionSourceKeyword,
	}
}

func argmax(scores map[string]float64) string {
	best := EmotionVocabulary[0]
	bestScore := scores[best]
	for _, label := range EmotionVocabulary[1:] {
		if scores[label] > bestScore {
			best = label
			bestScore = scores[label]
		}
	}
	return best
}

// DefaultEmotionTimeout 是外部模型调用的默认时限。
const DefaultEmotionTimeout = 2 * time.Second

// EmotionOptions 控制外部模型调用。Timeout 非正时使用 DefaultEmotionTimeout。
type EmotionOptions struct {
	Timeout       time.Duration
	MaxInputChars int
	CacheTTL      time.Duration
}

type emotionService struct {
	scorer   EmotionScorer
	fallback KeywordEmotionClassifier
	opts     EmotionOptions
	cache    *cache.Cache
}

// NewEmotionService 创建一个新的 EmotionService。scorer 为 nil 时只使用关键词匹配。
func NewEmotionService(scorer EmotionScorer, opts EmotionOptions) EmotionService {
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = 512
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultEmotionTimeout
	}
	s := &emotionService{scorer: scorer, opts: opts}
	if scorer != nil && opts.CacheTTL > 0 {
		s.cache = cache.New(opts.CacheTTL, opts.CacheTTL*2)
	}
	return s
}

// Detect 优先调用外部模型，任何错误、超时或无效输出都退回关键词匹配。
func (s *emotionService) Detect(ctx context.Context, text string) model.EmotionResult {
	if s.scorer == nil {
		metrics.RecordEmotionDetection(model.EmotionSourceKeyword, "primary")
		return s.fallback.Detect(text)
	}

	input := truncateRunes(text, s.opts.MaxInputChars)
	key := cacheKey(input)
	if s.cache != nil {
		if v, found := s.cache.Get(key); found {
			metrics.RecordEmotionDetection(model.EmotionSourceModel, "cache_hit")
			return copyResult(v.(model.EmotionResult))
		}
	}

	result, err := s.scoreWithDeadline(ctx, input)
	if err != nil {
		log.Warnf("外部情绪模型不可用，使用关键词匹配: %v", err)
		metrics.RecordEmotionDetection(model.EmotionSourceKeyword, "fallback")
		return s.fallback.Detect(text)
	}

	if s.cache != nil {
		s.cache.SetDefault(key, copyResult(result))
	}
	metrics.RecordEmotionDetection(model.EmotionSourceModel, "success")
	return result
}

type scoreOutcome struct {
	scores map[string]float64
	err    error
}

// scoreWithDeadline 在独立 goroutine 中调用外部模型，即使实现忽略 ctx 也不会阻塞超过时限。
func (s *emotionService) scoreWithDeadline(ctx context.Context, input string) (model.EmotionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	done := make(chan scoreOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- scoreOutcome{err: fmt.Errorf("scorer panicked: %v", r)}
			}
		}()
		scores, err := s.scorer.Score(ctx, input)
		done <- scoreOutcome{scores: scores, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return model.EmotionResult{}, out.err
		}
		return normalizeScores(out.scores)
	case <-ctx.Done():
		return model.EmotionResult{}, fmt.Errorf("emotion scorer: %w", ctx.Err())
	}
}

// normalizeScores 将外部标签映射到词表，丢弃未知标签，缺失标签补 0。
func normalizeScores(raw map[string]float64) (model.EmotionResult, error) {
	scores := make(map[string]float64, len(EmotionVocabulary))
	for _, label := range EmotionVocabulary {
		scores[label] = 0
	}
	known := 0
	for label, score := range raw {
		label = strings.ToLower(strings.TrimSpace(label))
		if _, ok := scores[label]; !ok {
			continue
		}
		if score < 0 {
			score = 0
		}
		scores[label] = score
		known++
	}
	if known == 0 {
		return model.EmotionResult{}, errNoKnownLabels
	}
	return model.EmotionResult{
		Label:  argmax(scores),
		Scores: scores,
		Source: model.EmotionSourceModel,
	}, nil
}

func copyResult(r model.EmotionResult) model.EmotionResult {
	scores := make(map[string]float64, len(r.Scores))
	for k, v := range r.Scores {
		scores[k] = v
	}
	r.Scores = scores
	return r
}

func truncateRunes(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}

func cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}
