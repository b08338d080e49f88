package model

import "time"

// ChatRequest 是一次对话轮次的输入。
type ChatRequest struct {
	Message      string
	ResponseType string
	UserID       string
	SessionID    string
}

// ChatReply 是一次对话轮次的结果。SafetyFlag 为 true 时只有 Response 与 RiskLevel 有意义。
type ChatReply struct {
	Response      string
	Emotion       string
	EmotionScores map[string]float64
	ResponseType  string
	SafetyFlag    bool
	RiskLevel     RiskLevel
	Timestamp     time.Time
}
