package log

import (
	"context"
	"log/slog"
)

// contextKey 上下文键类型
type contextKey string

// 上下文键定义
const (
	// RequestContextID HTTP 请求 ID
	RequestContextID contextKey = "request_id"

	// TransportContextID 调用来源：http、mcp
	TransportContextID contextKey = "transport"
)

// WithRequestID 在上下文中添加请求 ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestContextID, requestID)
}

// WithTransport 在上下文中添加调用来源
func WithTransport(ctx context.Context, transport string) context.Context {
	return context.WithValue(ctx, TransportContextID, transport)
}

// RequestIDFromContext 读取请求 ID
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestContextID).(string)
	return requestID
}

// LogCtxFromContext 从上下文中提取日志字段
func LogCtxFromContext(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if requestID, ok := ctx.Value(RequestContextID).(string); ok && requestID != "" {
		attrs = append(attrs, slog.String(string(RequestContextID), requestID))
	}
	if transport, ok := ctx.Value(TransportContextID).(string); ok && transport != "" {
		attrs = append(attrs, slog.String(string(TransportContextID), transport))
	}

	return attrs
}

// FromContext 返回附带上下文字段的 logger
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	attrs := LogCtxFromContext(ctx)
	if len(attrs) == 0 {
		return logger
	}
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return logger.With(args...)
}
