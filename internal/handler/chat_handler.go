// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"emo-support-go/internal/model"
	"emo-support-go/internal/service"
	"emo-support-go/pkg/log"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// 对客户端可见的固定文案，不包含任何内部错误细节。
const (
	emptyMessageError  = "Message cannot be empty"
	emptyMessagePrompt = "I'd love to chat! Could you please share what's on your mind?"
	processingError    = "I'm having trouble processing your message right now. Please try again."
	processingApology  = "I'm experiencing some technical difficulties. Could you please try again in a moment?"
	invalidBodyError   = "Invalid request body"
)

// ChatRequest 是 POST /api/chat 的请求体。
type ChatRequest struct {
	Message      string `json:"message"`
	ResponseType string `json:"response_type"`
	UserID       string `json:"user_id"`
	SessionID    string `json:"session_id"`
}

// ChatResponse 是 POST /api/chat 的响应体。安全拦截时只填充 response、emotion、safety_flag 和 risk_level。
type ChatResponse struct {
	Response      string             `json:"response"`
	Emotion       string             `json:"emotion"`
	EmotionScores map[string]float64 `json:"emotion_scores,omitempty"`
	ResponseType  string             `json:"response_type,omitempty"`
	SafetyFlag    bool               `json:"safety_flag"`
	RiskLevel     model.RiskLevel    `json:"risk_level"`
	Timestamp     string             `json:"timestamp,omitempty"`
}

// ErrorResponse 是所有错误响应的统一格式。
type ErrorResponse struct {
	Error    string `json:"error"`
	Response string `json:"response,omitempty"`
}

// ChatHandler 负责处理对话轮次请求。
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler 创建一个新的 ChatHandler。
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat 处理 POST /api/chat。
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Chat: 请求体解析失败: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: emptyMessageError, Response: emptyMessagePrompt})
		return
	}

	reply, err := h.chatService.Reply(c.Request.Context(), model.ChatRequest{
		Message:      req.Message,
		ResponseType: req.ResponseType,
		UserID:       req.UserID,
		SessionID:    req.SessionID,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: emptyMessageError, Response: emptyMessagePrompt})
			return
		}
		log.Errorf("Chat: 处理对话失败: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: processingError, Response: processingApology})
		return
	}

	c.JSON(http.StatusOK, toChatResponse(reply))
}

func toChatResponse(reply *model.ChatReply) ChatResponse {
	resp := ChatResponse{
		Response:      reply.Response,
		Emotion:       reply.Emotion,
		EmotionScores: reply.EmotionScores,
		ResponseType:  reply.ResponseType,
		SafetyFlag:    reply.SafetyFlag,
		RiskLevel:     reply.RiskLevel,
	}
	if !reply.Timestamp.IsZero() {
		resp.Timestamp = reply.Timestamp.Format(time.RFC3339)
	}
	return resp
}
