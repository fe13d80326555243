package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/todod/backend/internal/infrastructure/log"
	"gopkg.in/yaml.v3"
)

// 环境变量名
const (
	EnvHTTPPort         = "TODOD_HTTP_PORT"
	EnvStorageDriver    = "TODOD_STORAGE_DRIVER"
	EnvStoragePath      = "TODOD_STORAGE_PATH"
	EnvDiscoveryEnabled = "TODOD_DISCOVERY_ENABLED"
)

// 存储驱动
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
	DriverFile   = "file"
)

// Config 应用配置
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	MCP       MCPConfig       `yaml:"mcp"`
	Log       log.Config      `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTPPort string `yaml:"http_port"` // 固定端口，用于单例锁
}

// StorageConfig 快照存储配置
type StorageConfig struct {
	// Driver 存储驱动：sqlite、badger、file
	Driver string `yaml:"driver"`
	// Path 存储路径，留空时使用数据目录下的默认位置
	// badger 驱动下 ":memory:" 表示纯内存模式
	Path string `yaml:"path"`
}

// DiscoveryConfig 局域网服务发现配置
type DiscoveryConfig struct {
	Enabled      bool   `yaml:"enabled"`
	InstanceName string `yaml:"instance_name"`
}

// MCPConfig MCP 服务配置
type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// NewConfig 创建配置（默认值 + 环境变量覆盖）
func NewConfig() *Config {
	cfg := defaultConfig()
	cfg.applyEnv()
	return cfg
}

// Load 读取 YAML 配置文件，再应用环境变量覆盖
// path 为空时等同于 NewConfig
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultConfig 默认配置
func defaultConfig() *Config {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "todod"
	}
	return &Config{
		Server: ServerConfig{
			HTTPPort: ":19970",
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   "",
		},
		Discovery: DiscoveryConfig{
			Enabled:      false,
			InstanceName: hostname,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Log: log.Config{
			Level:  "info",
			Format: "console",
		},
	}
}

// applyEnv 应用环境变量覆盖
func (c *Config) applyEnv() {
	if port := os.Getenv(EnvHTTPPort); port != "" {
		c.Server.HTTPPort = port
	}
	if driver := os.Getenv(EnvStorageDriver); driver != "" {
		c.Storage.Driver = driver
	}
	if path := os.Getenv(EnvStoragePath); path != "" {
		c.Storage.Path = path
	}
	if enabled := os.Getenv(EnvDiscoveryEnabled); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			c.Discovery.Enabled = v
		}
	}
	c.Log.ApplyEnv()
}

// Validate 校验配置
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverBadger, DriverFile:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Server.HTTPPort == "" {
		return errors.New("server.http_port is required")
	}
	return nil
}

// ResolvedStoragePath 返回实际使用的存储路径
// 显式配置的路径支持 ~ 展开，留空时使用数据目录下的默认位置
func (c *StorageConfig) ResolvedStoragePath() string {
	if c.Path != "" {
		return ExpandHome(c.Path)
	}
	return DefaultStoragePath(c.Driver)
}

// NewServerConfig 创建服务器配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewStorageConfig 创建存储配置
func NewStorageConfig(cfg *Config) *StorageConfig {
	return &cfg.Storage
}

// NewDiscoveryConfig 创建服务发现配置
func NewDiscoveryConfig(cfg *Config) *DiscoveryConfig {
	return &cfg.Discovery
}

// NewMCPConfig 创建 MCP 配置
func NewMCPConfig(cfg *Config) *MCPConfig {
	return &cfg.MCP
}
