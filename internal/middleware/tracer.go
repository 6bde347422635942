package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// DefaultTraceIDHeader 默认的 Trace ID 请求头
	DefaultTraceIDHeader = "X-Trace-ID"
	// TraceIDKey gin.Context 中的 Trace ID 键
	TraceIDKey = "trace_id"
)

type traceIDKey struct{}

// maxTraceIDLen caps client supplied ids so they cannot flood the logs
const maxTraceIDLen = 128

// TraceMiddlewareWithConfig reuses the incoming trace id or generates one,
// then exposes it on gin.Context, request.Context and the response header
// TraceMiddlewareWithConfig 复用请求头中的 Trace ID 或生成新的，写入 gin.Context、request.Context 和响应头
func TraceMiddlewareWithConfig(enabled bool, headerName string) gin.HandlerFunc {
	if headerName == "" {
		headerName = DefaultTraceIDHeader
	}

	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		traceID := c.GetHeader(headerName)
		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Request = c.Request.WithContext(WithTraceID(c.Request.Context(), traceID))
		c.Header(headerName, traceID)

		c.Next()
	}
}

// WithTraceID returns ctx carrying traceID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// GetTraceID 从 context.Context 获取 Trace ID
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// GetTraceIDFromGin 从 gin.Context 获取 Trace ID
func GetTraceIDFromGin(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(TraceIDKey)
}
