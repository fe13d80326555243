package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{" Error ", slog.LevelError},
		{"invalid", slog.LevelInfo}, // 默认值
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := parseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNewConfigFromEnv(t *testing.T) {
	t.Run("default config", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "")
		t.Setenv("LOG_FORMAT", "")
		t.Setenv("ENV", "")

		cfg := NewConfigFromEnv()

		if cfg.Level != "info" {
			t.Errorf("expected default level info, got %s", cfg.Level)
		}
		if cfg.Format != "console" {
			t.Errorf("expected default format console, got %s", cfg.Format)
		}
	})

	t.Run("custom config", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "debug")
		t.Setenv("LOG_FORMAT", "json")
		t.Setenv("ENV", "")

		cfg := NewConfigFromEnv()

		if cfg.Level != "debug" {
			t.Errorf("expected level debug, got %s", cfg.Level)
		}
		if cfg.Format != "json" {
			t.Errorf("expected format json, got %s", cfg.Format)
		}
	})

	t.Run("development mode", func(t *testing.T) {
		t.Setenv("ENV", "development")
		t.Setenv("LOG_LEVEL", "error") // 应该被覆盖

		cfg := NewConfigFromEnv()

		if cfg.Level != "debug" {
			t.Errorf("expected debug in development, got %s", cfg.Level)
		}
		if !cfg.AddSource {
			t.Error("expected AddSource true in development")
		}
	})
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "")

	cfg := &Config{Level: "info", Format: "json"}
	cfg.ApplyEnv()

	if cfg.Level != "warn" {
		t.Errorf("expected env level to win, got %s", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected file format to be kept, got %s", cfg.Format)
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		expected     bool
	}{
		{"true value", "TEST_BOOL", false, "true", true},
		{"false value", "TEST_BOOL", true, "false", false},
		{"invalid value", "TEST_BOOL", true, "invalid", true}, // 默认值
		{"missing env", "MISSING_BOOL", false, "", false},     // 默认值
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			result := getEnvBool(tt.key, tt.defaultValue)
			if result != tt.expected {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.key, tt.defaultValue, result, tt.expected)
			}
		})
	}
}

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&Config{Level: "debug", Format: "json"}, &buf)
	defer Init(&Config{Level: "info", Format: "console"})

	if !IsDebugMode() {
		t.Error("expected debug mode")
	}

	NewModuleLogger("todo", "service").Debug("todo created", "id", 7)

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != ServiceName {
		t.Errorf("expected service %s, got %v", ServiceName, entry["service"])
	}
	if entry["module"] != "todo" || entry["component"] != "service" {
		t.Errorf("expected module/component fields, got %v", entry)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&Config{Level: "info", Format: "text"}, &buf)
	defer Init(&Config{Level: "info", Format: "console"})

	logger := NewModuleLogger("todo", "service")
	logger.Debug("hidden")
	if IsDebugMode() {
		t.Error("expected info level")
	}

	SetLevel("debug")
	logger.Debug("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line logged at info level: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("expected existing logger to follow new level, got %q", out)
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithTransport(WithRequestID(context.Background(), "req-1"), "http")
	FromContext(ctx, logger).Info("handled")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-1") {
		t.Errorf("expected request_id in output, got %q", out)
	}
	if !strings.Contains(out, "transport=http") {
		t.Errorf("expected transport in output, got %q", out)
	}
	if RequestIDFromContext(ctx) != "req-1" {
		t.Error("expected request id round trip")
	}
	if FromContext(context.Background(), logger) != logger {
		t.Error("expected same logger without context fields")
	}
}
