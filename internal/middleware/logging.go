// Package middleware 存放 Gin 框架的中间件。
package middleware

import (
	"emo-support-go/pkg/log"
	"emo-support-go/pkg/metrics"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader 是请求 ID 的头部名称，客户端传入时沿用，否则生成新的 ID。
const RequestIDHeader = "X-Request-ID"

// requestIDKey 是请求 ID 在 gin.Context 中的键名。
const requestIDKey = "requestId"

// RequestID 为每个请求分配请求 ID 并写入响应头。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID 返回当前请求的 ID，没有时返回空串。
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger 是一个 Gin 中间件，记录每个请求的结构化日志并上报 HTTP 指标。
// 请求体和响应体中可能包含用户倾诉的内容，这里不记录。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(statusCode), latency)

		log.Infow("HTTP Request Log",
			"requestId", GetRequestID(c),
			"statusCode", statusCode,
			"latency", latency.String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}
}
