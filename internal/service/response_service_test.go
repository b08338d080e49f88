package service

import (
	"math/rand"
	"sync"
	"testing"
)

// fixedRand 总是返回固定下标（越界时取模）。
type fixedRand struct{ idx int }

func (f fixedRand) Intn(n int) int { return f.idx % n }

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func TestCandidates_NonEmptyForEveryPair(t *testing.T) {
	emotions := append([]string{"concern", "unknown", ""}, EmotionVocabulary...)
	styles := append([]string{"poetic", ""}, ResponseStyles...)
	for _, style := range styles {
		for _, emotion := range emotions {
			if len(Candidates(style, emotion)) == 0 {
				t.Errorf("no candidates for (%q, %q)", style, emotion)
			}
		}
	}
}

func TestCandidates_Resolution(t *testing.T) {
	// 风格 + 情绪命中
	if got := Candidates(StyleMotivational, "sadness"); !contains(got, templateBank[StyleMotivational]["sadness"][0]) {
		t.Errorf("expected motivational sadness bucket, got %v", got)
	}
	// 情绪缺失时退回风格的 default 桶
	got := Candidates(StyleMotivational, "surprise")
	if len(got) != len(templateBank[StyleMotivational][defaultBucket]) || got[0] != templateBank[StyleMotivational][defaultBucket][0] {
		t.Errorf("expected motivational default bucket, got %v", got)
	}
	// empathetic 没有 default 桶，未知情绪使用全局兜底
	got = Candidates(StyleEmpathetic, "concern")
	if len(got) != len(fallbackResponses) || got[0] != fallbackResponses[0] {
		t.Errorf("expected global fallback, got %v", got)
	}
	// 未知风格直接使用全局兜底
	if got := Candidates("poetic", "joy"); got[0] != fallbackResponses[0] {
		t.Errorf("expected global fallback for unknown style, got %v", got)
	}
}

func TestSelect_StyleOnlyBucket(t *testing.T) {
	svc := NewResponseService(StyleEmpathetic, rand.New(rand.NewSource(1)))
	for i := 0; i < 20; i++ {
		got := svc.Select(StyleStressRelief, "anger")
		if !contains(templateBank[StyleStressRelief][defaultBucket], got) {
			t.Fatalf("unexpected stress relief response %q", got)
		}
	}
}

func TestSelect_EmpatheticJoy(t *testing.T) {
	svc := NewResponseService(StyleEmpathetic, rand.New(rand.NewSource(42)))
	for i := 0; i < 20; i++ {
		got := svc.Select(StyleEmpathetic, "joy")
		if !contains(templateBank[StyleEmpathetic]["joy"], got) {
			t.Fatalf("unexpected empathetic joy response %q", got)
		}
	}
}

func TestSelect_UnknownStyleUsesDefault(t *testing.T) {
	svc := NewResponseService(StyleFriendly, fixedRand{idx: 1})
	got := svc.Select("poetic", "sadness")
	if got != templateBank[StyleFriendly][defaultBucket][1] {
		t.Errorf("expected friendly default response, got %q", got)
	}
}

func TestNewResponseService_InvalidDefault(t *testing.T) {
	svc := NewResponseService("poetic", fixedRand{})
	if got := svc.NormalizeStyle(""); got != StyleEmpathetic {
		t.Errorf("expected empathetic, got %q", got)
	}
	if got := svc.NormalizeStyle(StyleEncouragement); got != StyleEncouragement {
		t.Errorf("expected known style to pass through, got %q", got)
	}
}

func TestSelect_Concurrent(t *testing.T) {
	svc := NewResponseService(StyleEmpathetic, rand.New(rand.NewSource(7)))
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if svc.Select(StyleEmpathetic, "fear") == "" {
					t.Error("empty response")
				}
			}
		}()
	}
	wg.Wait()
}
