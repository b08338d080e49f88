package middleware

import (
	"emo-support-go/pkg/log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Recovery 捕获 panic，只在服务端日志中记录细节，对客户端返回固定的致歉文案。
func Recovery(errorMessage, apology string) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Errorf("请求处理发生 panic: requestId=%s path=%s err=%v", GetRequestID(c), c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":    errorMessage,
			"response": apology,
		})
	})
}
