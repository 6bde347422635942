package middleware

import (
	"strings"
	"time"

	"github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AccessLogWithLogger logs one line per request; health checks are logged at debug level
// AccessLogWithLogger 每个请求记录一行访问日志；健康检查探针使用 debug 级别
func AccessLogWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := zapcore.InfoLevel
		if strings.HasSuffix(c.FullPath(), "/health") {
			level = zapcore.DebugLevel
		}
		if len(c.Errors) > 0 {
			level = zapcore.WarnLevel
		}

		ce := lg.Check(level, c.Request.URL.Path)
		if ce == nil {
			return
		}
		ce.Write(
			zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
			zap.String(logger.FieldMethod, c.Request.Method),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Int64(logger.FieldUID, app.GetUID(c)),
			zap.Duration(logger.FieldDuration, time.Since(start)),
			zap.String("ip", app.GetRequestIP(c)),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
		)
	}
}
