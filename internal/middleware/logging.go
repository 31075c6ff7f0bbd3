package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger 请求日志中间件
// 租户在鉴权中间件之后才写入上下文，所以在处理链返回后再取
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if q := c.Request.URL.RawQuery; q != "" {
			path += "?" + q
		}

		c.Next()

		tenantID := c.GetString(tenantIDKey)
		if tenantID == "" {
			tenantID = "-"
		}
		log.Printf("%s %s status=%d tenant=%s latency=%v",
			c.Request.Method, path, c.Writer.Status(), tenantID, time.Since(start))
	}
}
