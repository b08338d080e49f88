// Package metrics 定义了服务暴露给 Prometheus 的指标。
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emo_support_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "emo_support_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	safetyVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emo_support_safety_verdicts_total",
		Help: "Total number of safety checks by risk level",
	}, []string{"risk_level"})

	emotionDetections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emo_support_emotion_detections_total",
		Help: "Total number of emotion detections by source and outcome",
	}, []string{"source", "outcome"})

	rateLimitExceeded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "emo_support_rate_limit_exceeded_total",
		Help: "Total number of rejected requests due to rate limiting",
	})

	conversationAppendErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "emo_support_conversation_append_errors_total",
		Help: "Total number of failed conversation log appends",
	})
)

// RecordHTTPRequest 记录一次 HTTP 请求
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordSafetyVerdict 记录一次安全检查结果
func RecordSafetyVerdict(riskLevel string) {
	safetyVerdicts.WithLabelValues(riskLevel).Inc()
}

// RecordEmotionDetection 记录一次情绪识别
func RecordEmotionDetection(source, outcome string) {
	emotionDetections.WithLabelValues(source, outcome).Inc()
}

func RecordRateLimitExceeded() {
	rateLimitExceeded.Inc()
}

func RecordConversationAppendError() {
	conversationAppendErrors.Inc()
}

// Handler 返回 Prometheus 指标的 HTTP 处理器
func Handler() http.Handler {
	return promhttp.Handler()
}
