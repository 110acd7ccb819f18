package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/any-hub/any-store/internal/config"
	"github.com/any-hub/any-store/internal/version"
)

// InitLogger 构建 JSON 结构化日志。LogFilePath 为空写 stdout，否则写 lumberjack
// 轮转文件；目录不可用时退回 stdout 并记录一条 logger_fallback 警告。
// 级别为空按 info 处理，全局 logrus 与返回的 logger 保持同样的输出与级别。
func InitLogger(cfg config.GlobalConfig) (*logrus.Logger, error) {
	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	out, fallbackErr := openOutput(cfg)

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	logger.AddHook(serviceHook{})
	mirrorStandardLogger(logger)

	if fallbackErr != nil {
		fmt.Fprintf(os.Stderr, "logger_fallback: %v\n", fallbackErr)
		logger.WithFields(logrus.Fields{
			"action": "logger_fallback",
			"path":   cfg.LogFilePath,
		}).Warn(fallbackErr.Error())
	}
	return logger, nil
}

// Close 关闭轮转文件；stdout 输出无需处理。
func Close(logger *logrus.Logger) error {
	if logger == nil {
		return nil
	}
	if closer, ok := logger.Out.(*lumberjack.Logger); ok {
		return closer.Close()
	}
	return nil
}

func parseLevel(raw string) (logrus.Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		return 0, fmt.Errorf("无法解析日志级别: %w", err)
	}
	return level, nil
}

// openOutput 总是返回可用的 Writer；error 非空表示已经降级到 stdout。
func openOutput(cfg config.GlobalConfig) (io.Writer, error) {
	if cfg.LogFilePath == "" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
		return os.Stdout, fmt.Errorf("创建日志目录失败: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   cfg.LogFilePath,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		Compress:   cfg.LogCompress,
		LocalTime:  true,
	}, nil
}

func mirrorStandardLogger(logger *logrus.Logger) {
	std := logrus.StandardLogger()
	std.SetFormatter(logger.Formatter)
	std.SetOutput(logger.Out)
	std.SetLevel(logger.GetLevel())
}

// serviceHook 为每条日志补上 service/version 字段，已有同名字段时不覆盖。
type serviceHook struct{}

func (serviceHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (serviceHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["service"]; !ok {
		entry.Data["service"] = version.Name
	}
	if _, ok := entry.Data["version"]; !ok {
		entry.Data["version"] = version.Version
	}
	return nil
}
