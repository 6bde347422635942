package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/start-page-service/pkg/app"
	"github.com/haierkeys/start-page-service/pkg/code"
	"github.com/haierkeys/start-page-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger turns a handler panic into ErrorServerInternal with the panic text as details
// RecoveryWithLogger 将 handler 中的 panic 转换为 ErrorServerInternal，panic 内容作为 details 返回
func RecoveryWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			fields := []zap.Field{
				zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
				zap.String(logger.FieldMethod, c.Request.Method),
				zap.String(logger.FieldPath, c.Request.URL.Path),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("ip", c.ClientIP()),
				zap.ByteString("stack", debug.Stack()),
			}

			var msg string
			switch v := rec.(type) {
			case error:
				msg = v.Error()
				fields = append(fields, zap.Error(v))
			case string:
				msg = v
				fields = append(fields, zap.String("panic", v))
			default:
				msg = fmt.Sprintf("%v", v)
				fields = append(fields, zap.Any("panic", v))
			}
			lg.Error("recovered from panic", fields...)

			app.NewResponse(c).ToResponse(code.ErrorServerInternal.Clone().WithDetails(msg))
			c.Abort()
		}()

		c.Next()
	}
}
