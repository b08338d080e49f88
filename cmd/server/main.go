// Package main 是应用程序的入口点。
package main

import (
	"context"
	"emo-support-go/internal/config"
	"emo-support-go/internal/handler"
	"emo-support-go/internal/repository"
	"emo-support-go/internal/service"
	"emo-support-go/pkg/database"
	"emo-support-go/pkg/kafka"
	"emo-support-go/pkg/llm"
	"emo-support-go/pkg/log"
	"emo-support-go/pkg/sentiment"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "./configs/config.yaml"

func main() {
	// 1. 加载 .env 与配置
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "加载 .env 失败: %v\n", err)
	}
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	if _, err := os.Stat(configPath); err != nil {
		configPath = "" // 没有配置文件时只使用默认值和环境变量
	}
	config.Init(configPath)
	cfg := config.Conf

	// 2. 初始化日志记录器
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync() // 确保在程序退出时刷新所有缓冲的日志条目
	log.Info("日志记录器初始化成功")

	// 3. 初始化会话存储
	conversationRepo, err := newConversationRepository(cfg)
	if err != nil {
		log.Fatal("会话存储初始化失败", err)
	}

	// 4. 初始化 Service (依赖注入)
	var alerts service.SafetyAlertPublisher
	if cfg.Kafka.Enabled {
		publisher := kafka.NewAlertPublisher(cfg.Kafka)
		defer publisher.Close()
		alerts = publisher
		log.Infof("安全告警将投递到 Kafka topic: %s", cfg.Kafka.Topic)
	}

	safetyService := service.NewSafetyService()
	emotionService := service.NewEmotionService(newEmotionScorer(cfg), service.EmotionOptions{
		Timeout:       cfg.Emotion.Timeout,
		MaxInputChars: cfg.Emotion.MaxInputChars,
		CacheTTL:      cfg.Emotion.CacheTTL,
	})
	responseService := service.NewResponseService(cfg.Response.DefaultStyle, rand.New(rand.NewSource(time.Now().UnixNano())))
	chatService := service.NewChatService(safetyService, emotionService, responseService, conversationRepo, alerts)
	conversationService := service.NewConversationService(conversationRepo)

	// 5. 设置 Gin 模式并注册路由
	gin.SetMode(cfg.Server.Mode)
	r := handler.NewRouter(cfg, handler.Services{
		Chat:         chatService,
		Safety:       safetyService,
		Conversation: conversationService,
	})

	// 启动 HTTP 服务器并实现优雅停机
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("服务启动于 %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP 服务监听失败: %s\n", err)
		}
	}()

	// 等待中断信号以实现优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("接收到停机信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP 服务器关闭失败: %v", err)
	}
	if cfg.Conversation.Store == "redis" {
		database.CloseRedis()
	}
	log.Info("服务已优雅关闭")
}

func newConversationRepository(cfg config.Config) (repository.ConversationRepository, error) {
	if cfg.Conversation.Store != "redis" {
		log.Infof("使用内存会话存储，每个会话保留最近 %d 条消息", cfg.Conversation.MaxTurns)
		return repository.NewMemoryConversationRepository(cfg.Conversation.MaxTurns), nil
	}
	if err := database.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		return nil, err
	}
	log.Infof("使用 Redis 会话存储: %s", cfg.Redis.Addr)
	return repository.NewRedisConversationRepository(database.RDB, cfg.Conversation.MaxTurns, cfg.Conversation.TTL), nil
}

// newEmotionScorer 根据配置选择外部情绪模型，keyword 模式返回 nil。
func newEmotionScorer(cfg config.Config) service.EmotionScorer {
	switch cfg.Emotion.Provider {
	case "inference":
		log.Infof("情绪识别使用推理服务模型: %s", cfg.Inference.Model)
		return sentiment.NewClient(cfg.Inference)
	case "llm":
		log.Infof("情绪识别使用大语言模型: %s", cfg.LLM.Model)
		return llm.NewScorer(cfg.LLM)
	default:
		log.Info("情绪识别仅使用关键词匹配")
		return nil
	}
}
