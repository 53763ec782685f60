// Package logger 全局结构化日志（zap）
//
// 使用方式：
//
//	if err := logger.New(cfg.Log.Level, cfg.Log.Format); err != nil { ... }
//	defer logger.Sync()
//	logger.Log.Infow("图书已创建", "book_id", id)
//
// 未调用New之前Log是Nop实现，单元测试中无需初始化
package logger

import (
	"errors"
	"os"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log 全局SugaredLogger
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// New 按级别和格式初始化全局Logger
// format: console | json
func New(level, format string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zl, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = zl.Sugar()
	return nil
}

// Sync 刷新缓冲区，程序退出前调用
// stdout/stderr不支持fsync，忽略EINVAL/ENOTTY
func Sync() error {
	err := Log.Sync()
	if err == nil || errors.Is(err, os.ErrInvalid) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
