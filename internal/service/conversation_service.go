package service

import (
	"context"
	"emo-support-go/internal/model"
	"emo-support-go/internal/repository"
)

// ConversationService 定义了会话历史查询的接口。
type ConversationService interface {
	GetConversationHistory(ctx context.Context, userID, sessionID string) ([]model.ChatTurn, error)
}

type conversationService struct {
	repo repository.ConversationRepository
}

// NewConversationService 创建一个新的 ConversationService。
func NewConversationService(repo repository.ConversationRepository) ConversationService {
	return &conversationService{repo: repo}
}

// GetConversationHistory 获取用户指定会话最近的消息记录。
func (s *conversationService) GetConversationHistory(ctx context.Context, userID, sessionID string) ([]model.ChatTurn, error) {
	return s.repo.Get(ctx, model.SessionKey(userID, sessionID))
}
