// Package service 包含了应用的业务逻辑层。
package service

import (
	"emo-support-go/internal/model"
	"strings"
)

const (
	crisisAdvisory     = "I'm really concerned about what you're sharing. Please contact a mental health professional immediately or call emergency services if you're in crisis. You can also text HOME to 741741 to connect with a crisis counselor."
	concerningAdvisory = "It sounds like you're going through a really tough time. While I'm here to listen, I strongly encourage you to speak with a mental health professional who can provide the proper support you deserve."
	safeMessage        = "Safe"
)

// 危机短语：命中任意一条即判定为高风险。
var crisisPhrases = []string{
	"kill myself", "suicide", "self-harm", "hurt myself",
	"end it all", "want to die", "harm myself",
}

// 关注短语：仅在未命中危机短语时检查。
var concerningPhrases = []string{
	"depressed", "hopeless", "can't go on", "no reason to live",
}

// SafetyService 定义了消息安全检查的接口。
type SafetyService interface {
	Check(text string) model.SafetyVerdict
}

type safetyService struct{}

// NewSafetyService 创建一个新的 SafetyService 实例。
func NewSafetyService() SafetyService {
	return &safetyService{}
}

// Check 对消息做子串匹配，危机短语优先于关注短语。
// 匹配不做分词和否定识别，"I don't want to die" 同样会命中。
func (s *safetyService) Check(text string) model.SafetyVerdict {
	lower := strings.ToLower(text)

	if containsAny(lower, crisisPhrases) {
		return model.SafetyVerdict{IsSafe: false, RiskLevel: model.RiskHigh, Message: crisisAdvisory}
	}
	if containsAny(lower, concerningPhrases) {
		return model.SafetyVerdict{IsSafe: false, RiskLevel: model.RiskMedium, Message: concerningAdvisory}
	}
	return model.SafetyVerdict{IsSafe: true, RiskLevel: model.RiskLow, Message: safeMessage}
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
