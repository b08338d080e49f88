package model

// 情绪识别结果的来源
const (
	EmotionSourceKeyword = "keyword"
	EmotionSourceModel   = "model"
)

// EmotionConcern 仅用于安全拦截时的回复，不属于情绪词表。
const EmotionConcern = "concern"

// EmotionResult 是一次情绪识别的输出，Scores 总是包含词表中的全部标签。
type EmotionResult struct {
	Label  string             `json:"label"`
	Scores map[string]float64 `json:"scores"`
	Source string             `json:"source"`
}
