// Package model 包含了应用的数据模型定义。
package model

import "time"

// 对话角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn 代表会话日志中的一条记录，追加后不再修改。
type ChatTurn struct {
	Role      string    `json:"role"` // "user" 或 "assistant"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionKey 由用户 ID 与会话 ID 组合而成，缺省值分别为 anonymous 和 default。
func SessionKey(userID, sessionID string) string {
	if userID == "" {
		userID = DefaultUserID
	}
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	return userID + ":" + sessionID
}

const (
	DefaultUserID    = "anonymous"
	DefaultSessionID = "default"
)
