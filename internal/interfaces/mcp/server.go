package mcp

import (
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	apptodo "github.com/todod/backend/internal/application/todo"
	"github.com/todod/backend/internal/infrastructure/config"
	"github.com/todod/backend/internal/infrastructure/log"
)

// MCPServer MCP 服务器
type MCPServer struct {
	server  *mcp.Server
	handler http.Handler
	todos   *apptodo.Service
	enabled bool
	logger  *slog.Logger
}

// NewServer 创建 MCP 服务器并注册待办工具
func NewServer(todos *apptodo.Service, cfg *config.MCPConfig) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "todod",
			Version: config.Version,
		},
		nil, // 使用默认能力
	)

	s := &MCPServer{
		server:  server,
		todos:   todos,
		enabled: cfg == nil || cfg.Enabled,
		logger:  log.NewModuleLogger("mcp", "server"),
	}
	s.registerTodoTools()
	s.logger.Debug("MCP todo tools registered")

	// 每个请求返回同一个服务器实例
	s.handler = mcp.NewSSEHandler(func(r *http.Request) *mcp.Server {
		return server
	}, nil)

	return s
}

// Enabled 配置中是否开启 MCP 端点
func (s *MCPServer) Enabled() bool {
	return s.enabled
}

// Server 返回底层 MCP 服务器
func (s *MCPServer) Server() *mcp.Server {
	return s.server
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}
