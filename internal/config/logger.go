package config

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var logg = logrus.New()

// GetLogger 全局日志实例
func GetLogger() *logrus.Logger {
	return logg
}

// NewLogger 按配置创建日志实例
func NewLogger(cfg LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// SetupLogger 按配置重建全局日志实例并返回
func SetupLogger(cfg LogConfig) *logrus.Logger {
	logg = NewLogger(cfg)
	return logg
}

// LogError 以结构化字段记录错误
func LogError(logger *logrus.Logger, moduleName string, funcName string, context string, data any, err error) {
	fields := logrus.Fields{
		"module":   moduleName,
		"funcName": funcName,
		"context":  context,
	}
	if data != nil {
		fields["data"] = data
	}
	logger.WithFields(fields).Error(err.Error())
}
