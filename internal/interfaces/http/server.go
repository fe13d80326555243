package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/todod/backend/internal/infrastructure/config"
	"github.com/todod/backend/internal/infrastructure/log"
	"github.com/todod/backend/internal/infrastructure/metrics"
	"github.com/todod/backend/internal/infrastructure/websocket"
	"github.com/todod/backend/internal/interfaces/http/handler"
	"github.com/todod/backend/internal/interfaces/http/middleware"
	"github.com/todod/backend/internal/interfaces/mcp"

	_ "github.com/todod/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	mu       sync.Mutex
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	todoHandler *handler.TodoHandler,
	healthHandler *handler.HealthHandler,
	hub *websocket.Hub,
	m *metrics.Metrics,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	logger := log.NewModuleLogger("http", "server")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(logger),
		middleware.EnsureUTF8Body(),
	)

	// 注册路由
	api := router.Group("/api/v1")
	{
		todos := api.Group("/todos")
		{
			todos.GET("", todoHandler.List)
			todos.POST("", todoHandler.Create)
			todos.GET("/page", todoHandler.Page)
			todos.GET("/latest", todoHandler.Latest)
			todos.GET("/stats", todoHandler.Stats)
			todos.DELETE("/completed", todoHandler.DeleteCompleted)
			todos.POST("/reset", todoHandler.Reset)
			todos.GET("/:id", todoHandler.Get)
			todos.PATCH("/:id", todoHandler.Update)
			todos.DELETE("/:id", todoHandler.Delete)

			// 变更推送
			if hub != nil {
				todos.GET("/ws", gin.WrapF(hub.HandleConnection))
			}
		}
	}

	// 健康检查
	router.GET("/health", healthHandler.Health)

	// Prometheus 指标
	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil && mcpServer.Enabled() {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:   router,
		httpPort: cfg.HTTPPort,
		logger:   logger,
	}
}

// Handler 返回路由，用于测试
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start 监听配置端口并启动服务器
func (s *HTTPServer) Start() error {
	listener, err := net.Listen("tcp", s.httpPort)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

// Serve 在已获取的 listener 上启动服务器
// 正常关闭时返回 nil
func (s *HTTPServer) Serve(listener net.Listener) error {
	server := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.logger.Info("HTTP server starting",
		"addr", listener.Addr().String(),
	)

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	if server != nil {
		return server.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
