package config

import "github.com/google/wire"

// ProviderSet 配置 ProviderSet
// *Config 由调用方传入（命令行解析后）
var ProviderSet = wire.NewSet(
	NewServerConfig,
	NewStorageConfig,
	NewDiscoveryConfig,
	NewMCPConfig,
)
