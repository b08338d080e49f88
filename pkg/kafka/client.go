// Package kafka 提供了向 Kafka 投递安全告警的功能。
package kafka

import (
	"context"
	"emo-support-go/internal/config"
	"emo-support-go/internal/model"
	"emo-support-go/pkg/log"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"
)

// messageWriter 抽象了 kafka.Writer，便于测试替换。
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// AlertPublisher 将安全告警写入 Kafka 主题。
type AlertPublisher struct {
	writer messageWriter
}

// NewAlertPublisher 初始化 Kafka 生产者。写入为异步模式，失败只记录日志。
func NewAlertPublisher(cfg config.KafkaConfig) *AlertPublisher {
	w := &kafka.Writer{
		Addr:     kafka.TCP(strings.Split(cfg.Brokers, ",")...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
		Async:    true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				log.Errorf("安全告警写入 Kafka 失败: count=%d, err=%v", len(messages), err)
			}
		},
	}
	log.Infof("Kafka 生产者初始化成功, topic=%s", cfg.Topic)
	return &AlertPublisher{writer: w}
}

// Publish 发送一条安全告警，以会话作为消息 key 保证同一会话的告警有序。
func (p *AlertPublisher) Publish(ctx context.Context, alert model.SafetyAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal safety alert: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(model.SessionKey(alert.UserID, alert.SessionID)),
		Value: payload,
	})
}

// Close 刷新并关闭生产者。
func (p *AlertPublisher) Close() error {
	return p.writer.Close()
}
