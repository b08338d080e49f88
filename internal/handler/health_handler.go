package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Version 是对外报告的服务版本。
const Version = "1.0.0"

// Ping 处理 GET /api/ping。
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "active",
		"message":   "Emotional support chat backend is running",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   Version,
	})
}
