package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// slowRequestThreshold 慢请求阈值
const slowRequestThreshold = 3 * time.Second

// Logger 请求日志中间件
// 1. 生成请求ID（客户端传了X-Request-ID则沿用）
// 2. 记录方法、路由、状态码、耗时、客户端IP
// 3. 有Span时附带trace_id，日志与追踪可以互相跳转
// 不记录请求体和Cookie
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 请求ID
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		// 2. 处理请求
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		// 3. 记录日志
		status := c.Writer.Status()
		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"latency", latency,
			"client_ip", c.ClientIP(),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, "trace_id", traceID)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			logger.Log.Errorw("http request", fields...)
		case status >= 400:
			logger.Log.Warnw("http request", fields...)
		default:
			logger.Log.Infow("http request", fields...)
		}

		if latency > slowRequestThreshold {
			logger.Log.Warnw("slow request", "method", c.Request.Method, "path", c.Request.URL.Path, "latency", latency)
		}
	}
}

// Recovery panic恢复，记录到zap后返回500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Log.Errorw("panic recovered",
			"request_id", c.GetString("request_id"),
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		c.AbortWithStatusJSON(500, gin.H{"error": "Internal server error"})
	})
}
