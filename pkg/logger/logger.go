// Package logger 构建项目统一使用的 zap 日志器
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string
	// File 日志文件路径，为空时只输出到控制台
	File string
	// Production 是否使用 JSON 编码写入文件
	Production bool
	// MaxSize 单个日志文件最大尺寸（MB）
	MaxSize int
	// MaxBackups 保留的历史日志文件数
	MaxBackups int
	// MaxAge 历史日志保留天数
	MaxAge int
}

// NewLogger creates a logger writing to the console and, if configured, to a rotated file
// NewLogger 创建日志器：输出到控制台，配置了文件时同时写入按大小滚动的日志文件
func NewLogger(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		l, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = l
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	consoleCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stderr), level),
	}

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0754); err != nil {
			return nil, err
		}

		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder

		var encoder zapcore.Encoder
		if cfg.Production {
			encoder = zapcore.NewJSONEncoder(fileCfg)
		} else {
			encoder = zapcore.NewConsoleEncoder(fileCfg)
		}

		writer := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    withDefault(cfg.MaxSize, 100),
			MaxBackups: withDefault(cfg.MaxBackups, 5),
			MaxAge:     withDefault(cfg.MaxAge, 30),
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(writer), level))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func withDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
