package handler

import (
	"emo-support-go/internal/model"
	"emo-support-go/internal/service"
	"emo-support-go/pkg/log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConversationHandler 处理与对话历史相关的 API 请求。
type ConversationHandler struct {
	service service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler。
func NewConversationHandler(service service.ConversationService) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// GetHistory 处理 GET /api/history，返回指定会话最近的消息。
func (h *ConversationHandler) GetHistory(c *gin.Context) {
	userID := c.DefaultQuery("user_id", model.DefaultUserID)
	sessionID := c.DefaultQuery("session_id", model.DefaultSessionID)

	history, err := h.service.GetConversationHistory(c.Request.Context(), userID, sessionID)
	if err != nil {
		log.Errorf("GetHistory: 获取会话历史失败: user=%s session=%s err=%v", userID, sessionID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve conversation history"})
		return
	}
	if history == nil {
		history = []model.ChatTurn{}
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":    userID,
		"session_id": sessionID,
		"history":    history,
	})
}
