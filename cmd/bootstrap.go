package cmd

import (
	"os"

	"github.com/haierkeys/start-page-service/pkg/logger"

	"go.uber.org/zap"
)

// bootstrapLogger logs to the console until the configured logger is built
// bootstrapLogger 在配置文件中的日志器创建之前输出到控制台
var bootstrapLogger = newBootstrapLogger()

func newBootstrapLogger() *zap.Logger {
	level := "info"
	if os.Getenv("DEBUG") != "" {
		level = "debug"
	}
	lg, err := logger.NewLogger(logger.Config{Level: level})
	if err != nil {
		return zap.NewNop()
	}
	return lg.Named("bootstrap")
}
