package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger 请求日志中间件
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 处理请求
		c.Next()

		// 记录日志，登录用户带上 ID 便于按人排查
		latency := time.Since(start)
		status := c.Writer.Status()
		actor := "-"
		if uid, ok := c.Get("user_id"); ok {
			actor = fmt.Sprint(uid)
		}

		log.Printf("[%s] %s %s %d %v user=%s",
			c.Request.Method,
			path,
			c.ClientIP(),
			status,
			latency,
			actor,
		)
	}
}
