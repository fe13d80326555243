package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/todod/backend/internal/infrastructure/log/handler"
)

// ServiceName 日志中的服务标识
const ServiceName = "todod"

var (
	defaultLogger *slog.Logger
	// level 所有处理器共享，运行期可通过 SetLevel 调整
	level = new(slog.LevelVar)
)

// Init 初始化全局 logger，cfg 为 nil 时读取环境变量
func Init(cfg *Config) {
	if cfg == nil {
		cfg = NewConfigFromEnv()
	}
	InitWithWriter(cfg, os.Stdout)
}

// InitWithWriter 使用指定输出初始化全局 logger
func InitWithWriter(cfg *Config, out io.Writer) {
	level.Set(parseLevel(cfg.Level))
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		h = slog.NewJSONHandler(out, opts)
	case "text":
		h = slog.NewTextHandler(out, opts)
	default:
		h = handler.NewConsoleHandler(out, opts)
	}

	defaultLogger = slog.New(h).With(slog.String("service", ServiceName))
	slog.SetDefault(defaultLogger)
}

// GetLogger 获取全局 logger，未初始化时按环境变量初始化
func GetLogger() *slog.Logger {
	if defaultLogger == nil {
		Init(nil)
	}
	return defaultLogger
}

// NewModuleLogger 为模块/组件创建 logger
func NewModuleLogger(module, component string) *slog.Logger {
	return GetLogger().With(
		slog.String("module", module),
		slog.String("component", component),
	)
}

// SetLevel 调整全局日志级别，已创建的 logger 立即生效
func SetLevel(name string) {
	level.Set(parseLevel(name))
}

// IsDebugMode 当前是否输出 debug 日志
func IsDebugMode() bool {
	return level.Level() <= slog.LevelDebug
}

// parseLevel 解析日志级别，无法识别时为 info
func parseLevel(name string) slog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return l
}
