package config

// Version 构建版本，发布时通过 -ldflags "-X" 注入
var Version = "dev"
