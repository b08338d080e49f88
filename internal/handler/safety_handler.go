package handler

import (
	"emo-support-go/internal/model"
	"emo-support-go/internal/service"
	"emo-support-go/pkg/log"
	"emo-support-go/pkg/metrics"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SafetyCheckRequest 是 POST /api/safety-check 的请求体。
type SafetyCheckRequest struct {
	Text string `json:"text"`
}

// SafetyCheckResponse 是 POST /api/safety-check 的响应体。
type SafetyCheckResponse struct {
	IsSafe    bool            `json:"is_safe"`
	Message   string          `json:"message"`
	RiskLevel model.RiskLevel `json:"risk_level"`
}

// SafetyHandler 对外暴露独立的安全检查。
type SafetyHandler struct {
	safetyService service.SafetyService
}

// NewSafetyHandler 创建一个新的 SafetyHandler。
func NewSafetyHandler(safetyService service.SafetyService) *SafetyHandler {
	return &SafetyHandler{safetyService: safetyService}
}

// Check 处理 POST /api/safety-check。
func (h *SafetyHandler) Check(c *gin.Context) {
	var req SafetyCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("SafetyCheck: 请求体解析失败: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: invalidBodyError})
		return
	}

	verdict := h.safetyService.Check(req.Text)
	metrics.RecordSafetyVerdict(string(verdict.RiskLevel))
	c.JSON(http.StatusOK, SafetyCheckResponse{
		IsSafe:    verdict.IsSafe,
		Message:   verdict.Message,
		RiskLevel: verdict.RiskLevel,
	})
}
