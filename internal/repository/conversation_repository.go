// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"
	"emo-support-go/internal/model"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultMaxTurns 是每个会话保留的最大记录数。
const DefaultMaxTurns = 20

// ConversationRepository 定义了会话日志的操作接口。
type ConversationRepository interface {
	// Append 追加记录，并只保留最近 maxTurns 条。
	Append(ctx context.Context, sessionKey string, turns ...model.ChatTurn) error
	// Get 返回会话记录的副本，会话不存在时返回空切片。
	Get(ctx context.Context, sessionKey string) ([]model.ChatTurn, error)
}

// sessionLog 是单个会话的记录，由自身的锁保护。
type sessionLog struct {
	mu    sync.Mutex
	turns []model.ChatTurn
}

// memoryConversationRepository 是进程内的会话日志。
// 会话数量不设上限，也不会整体淘汰会话，重启后数据丢失。
type memoryConversationRepository struct {
	mu       sync.RWMutex
	sessions map[string]*sessionLog
	maxTurns int
}

// NewMemoryConversationRepository 创建一个基于内存的 ConversationRepository 实例。
func NewMemoryConversationRepository(maxTurns int) ConversationRepository {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &memoryConversationRepository{
		sessions: make(map[string]*sessionLog),
		maxTurns: maxTurns,
	}
}

func (r *memoryConversationRepository) session(sessionKey string) *sessionLog {
	r.mu.RLock()
	s, ok := r.sessions[sessionKey]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// 获取写锁后再次检查
	if s, ok := r.sessions[sessionKey]; ok {
		return s
	}
	s = &sessionLog{}
	r.sessions[sessionKey] = s
	return s
}

// Append 在会话锁内追加并从头部裁剪。
func (r *memoryConversationRepository) Append(_ context.Context, sessionKey string, turns ...model.ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}
	s := r.session(sessionKey)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, turns...)
	if len(s.turns) > r.maxTurns {
		trimmed := make([]model.ChatTurn, r.maxTurns)
		copy(trimmed, s.turns[len(s.turns)-r.maxTurns:])
		s.turns = trimmed
	}
	return nil
}

func (r *memoryConversationRepository) Get(_ context.Context, sessionKey string) ([]model.ChatTurn, error) {
	r.mu.RLock()
	s, ok := r.sessions[sessionKey]
	r.mu.RUnlock()
	if !ok {
		return []model.ChatTurn{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out, nil
}

type redisConversationRepository struct {
	redisClient *redis.Client
	maxTurns    int
	ttl         time.Duration
}

// NewRedisConversationRepository 创建一个基于 Redis 列表的 ConversationRepository 实例。
func NewRedisConversationRepository(redisClient *redis.Client, maxTurns int, ttl time.Duration) ConversationRepository {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &redisConversationRepository{redisClient: redisClient, maxTurns: maxTurns, ttl: ttl}
}

func conversationKey(sessionKey string) string {
	return fmt.Sprintf("conversation:%s", sessionKey)
}

// Append 在一个 MULTI/EXEC 事务中执行 RPUSH、LTRIM 与 EXPIRE，并发追加不会丢失记录。
func (r *redisConversationRepository) Append(ctx context.Context, sessionKey string, turns ...model.ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal chat turn: %w", err)
		}
		values = append(values, b)
	}

	key := conversationKey(sessionKey)
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.LTrim(ctx, key, int64(-r.maxTurns), -1)
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append conversation history: %w", err)
	}
	return nil
}

// Get 从 Redis 获取会话记录。
func (r *redisConversationRepository) Get(ctx context.Context, sessionKey string) ([]model.ChatTurn, error) {
	items, err := r.redisClient.LRange(ctx, conversationKey(sessionKey), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation history: %w", err)
	}
	turns := make([]model.ChatTurn, 0, len(items))
	for _, item := range items {
		var t model.ChatTurn
		if err := json.Unmarshal([]byte(item), &t); err != nil {
			return nil, fmt.Errorf("failed to unmarshal chat turn: %w", err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}
