package model

import "time"

// RiskLevel 表示一条消息的安全风险等级。
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"    // 安全
	RiskMedium RiskLevel = "medium" // 需要关注
	RiskHigh   RiskLevel = "high"   // 危机
)

// SafetyVerdict 是安全检查的结果。
type SafetyVerdict struct {
	IsSafe    bool
	RiskLevel RiskLevel
	Message   string
}

// SafetyAlert 是检测到高风险消息后投递到消息队列的事件，不包含消息原文。
type SafetyAlert struct {
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	RiskLevel RiskLevel `json:"risk_level"`
	Timestamp time.Time `json:"timestamp"`
}
