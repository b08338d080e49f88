package service

import (
	"context"
	"emo-support-go/internal/model"
	"emo-support-go/internal/repository"
	"emo-support-go/pkg/log"
	"emo-support-go/pkg/metrics"
	"errors"
	"strings"
	"time"
)

// ErrEmptyMessage 表示去除首尾空白后消息为空。
var ErrEmptyMessage = errors.New("message cannot be empty")

// SafetyAlertPublisher 接收高风险消息的告警事件。
type SafetyAlertPublisher interface {
	Publish(ctx context.Context, alert model.SafetyAlert) error
}

// ChatService 定义了一次对话轮次的处理接口。
type ChatService interface {
	Reply(ctx context.Context, req model.ChatRequest) (*model.ChatReply, error)
}

type chatService struct {
	safetyService    SafetyService
	emotionService   EmotionService
	responseService  ResponseService
	conversationRepo repository.ConversationRepository
	alerts           SafetyAlertPublisher
	now              func() time.Time
}

// NewChatService 创建一个新的 ChatService 实例。alerts 可以为 nil。
func NewChatService(
	safetyService SafetyService,
	emotionService EmotionService,
	responseService ResponseService,
	conversationRepo repository.ConversationRepository,
	alerts SafetyAlertPublisher,
) ChatService {
	return &chatService{
		safetyService:    safetyService,
		emotionService:   emotionService,
		responseService:  responseService,
		conversationRepo: conversationRepo,
		alerts:           alerts,
		now:              time.Now,
	}
}

// Reply 先做安全检查；不安全时直接返回提示语，安全时依次识别情绪、选择回复并写入会话日志。
func (s *chatService) Reply(ctx context.Context, req model.ChatRequest) (*model.ChatReply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	userID := req.UserID
	if userID == "" {
		userID = model.DefaultUserID
	}
	style := s.responseService.NormalizeStyle(req.ResponseType)

	// 1. 安全检查
	verdict := s.safetyService.Check(message)
	metrics.RecordSafetyVerdict(string(verdict.RiskLevel))
	if !verdict.IsSafe {
		log.Warnw("Safety triggered",
			"userId", userID,
			"sessionId", req.SessionID,
			"riskLevel", verdict.RiskLevel,
			"message", message,
		)
		s.publishAlert(ctx, userID, req.SessionID, verdict.RiskLevel)
		return &model.ChatReply{
			Response:   verdict.Message,
			Emotion:    model.EmotionConcern,
			SafetyFlag: true,
			RiskLevel:  verdict.RiskLevel,
		}, nil
	}

	// 2. 情绪识别
	emotion := s.emotionService.Detect(ctx, message)

	// 3. 选择回复
	response := s.responseService.Select(style, emotion.Label)

	// 4. 写入会话日志，失败不影响本轮回复
	now := s.now()
	key := model.SessionKey(userID, req.SessionID)
	err := s.conversationRepo.Append(ctx, key,
		model.ChatTurn{Role: model.RoleUser, Content: message, Timestamp: now},
		model.ChatTurn{Role: model.RoleAssistant, Content: response, Timestamp: now},
	)
	if err != nil {
		metrics.RecordConversationAppendError()
		log.Errorf("Failed to save conversation history: key=%s, err=%v", key, err)
	}

	log.Debugf("Generated response: emotion=%s style=%s source=%s", emotion.Label, style, emotion.Source)
	return &model.ChatReply{
		Response:      response,
		Emotion:       emotion.Label,
		EmotionScores: emotion.Scores,
		ResponseType:  style,
		SafetyFlag:    false,
		RiskLevel:     verdict.RiskLevel,
		Timestamp:     now,
	}, nil
}

func (s *chatService) publishAlert(ctx context.Context, userID, sessionID string, level model.RiskLevel) {
	if s.alerts == nil {
		return
	}
	if sessionID == "" {
		sessionID = model.DefaultSessionID
	}
	alert := model.SafetyAlert{UserID: userID, SessionID: sessionID, RiskLevel: level, Timestamp: s.now()}
	if err := s.alerts.Publish(ctx, alert); err != nil {
		log.Errorf("Failed to publish safety alert: %v", err)
	}
}
