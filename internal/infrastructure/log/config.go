package log

import (
	"os"
	"strconv"
	"strings"
)

// Config 日志配置
type Config struct {
	// Level 日志级别：debug, info, warn, error
	Level string `yaml:"level" json:"level"`

	// Format 日志格式：console, text, json
	Format string `yaml:"format" json:"format"`

	// AddSource 是否添加源文件信息
	AddSource bool `yaml:"add_source" json:"add_source"`
}

// NewConfigFromEnv 从环境变量创建配置
func NewConfigFromEnv() *Config {
	cfg := &Config{
		Level:     getEnvWithDefault("LOG_LEVEL", "info"),
		Format:    getEnvWithDefault("LOG_FORMAT", "console"),
		AddSource: getEnvBool("LOG_ADD_SOURCE", false),
	}
	cfg.applyEnvironment()
	return cfg
}

// ApplyEnv 用环境变量覆盖已有配置（配置文件之后调用）
func (c *Config) ApplyEnv() {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.Format = format
	}
	c.AddSource = getEnvBool("LOG_ADD_SOURCE", c.AddSource)
	c.applyEnvironment()
}

// applyEnvironment 开发环境强制 debug + console
func (c *Config) applyEnvironment() {
	if c.isDevelopment() {
		c.Level = "debug"
		c.Format = "console"
		c.AddSource = true
	}
}

// isDevelopment 检查是否为开发环境
func (c *Config) isDevelopment() bool {
	env := getEnvWithDefault("ENV", "production")
	return strings.ToLower(env) == "development"
}

// getEnvWithDefault 获取环境变量，带默认值
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool 获取布尔型环境变量
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}
