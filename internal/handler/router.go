package handler

import (
	"emo-support-go/internal/config"
	"emo-support-go/internal/middleware"
	"emo-support-go/internal/service"
	"emo-support-go/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Services 汇总路由需要的业务服务。
type Services struct {
	Chat         service.ChatService
	Safety       service.SafetyService
	Conversation service.ConversationService
}

// NewRouter 创建 Gin 引擎并注册中间件与路由。
func NewRouter(cfg config.Config, svc Services) *gin.Engine {
	r := gin.New() // 使用 New() 创建一个不带默认中间件的引擎
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(processingError, processingApology),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(metrics.Handler()))
	}

	api := r.Group("/api")
	api.GET("/ping", Ping)

	limited := api.Group("")
	if cfg.RateLimit.Enabled {
		limited.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)))
	}
	{
		limited.POST("/chat", NewChatHandler(svc.Chat).Chat)
		limited.POST("/safety-check", NewSafetyHandler(svc.Safety).Check)
		limited.GET("/history", NewConversationHandler(svc.Conversation).GetHistory)
	}

	return r
}
