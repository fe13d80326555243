package wire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	appNotification "github.com/todod/backend/internal/application/notification"
	appTodo "github.com/todod/backend/internal/application/todo"
	"github.com/todod/backend/internal/domain/events"
	"github.com/todod/backend/internal/infrastructure/config"
	"github.com/todod/backend/internal/infrastructure/discovery"
	applog "github.com/todod/backend/internal/infrastructure/log"
	"github.com/todod/backend/internal/infrastructure/websocket"
	"github.com/todod/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer  *interfaces.HTTPServer
	MCPServer   *interfaces.MCPServer
	TodoService *appTodo.Service

	eventBus   events.EventBus
	notifier   *appNotification.ChangeNotifier
	wsHub      *websocket.Hub
	advertiser *discovery.MDNSAdvertiser
	logger     *slog.Logger

	// serveErr HTTP 服务异常退出时写入
	serveErr chan error
	stopOnce sync.Once
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	todoService *appTodo.Service,
	eventBus events.EventBus,
	notifier *appNotification.ChangeNotifier,
	wsHub *websocket.Hub,
	advertiser *discovery.MDNSAdvertiser,
) *App {
	return &App{
		HTTPServer:  httpServer,
		MCPServer:   mcpServer,
		TodoService: todoService,
		eventBus:    eventBus,
		notifier:    notifier,
		wsHub:       wsHub,
		advertiser:  advertiser,
		logger:      applog.NewModuleLogger("app", "main"),
		serveErr:    make(chan error, 1),
	}
}

// Start 启动所有服务
// listener 为单例锁已占用的端口
func (a *App) Start(ctx context.Context, listener net.Listener) error {
	a.logger.Info("Starting todod",
		"version", config.Version,
	)

	// 先恢复持久化状态，失败时不对外提供服务
	if err := a.TodoService.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore todo list: %w", err)
	}

	// 订阅待办事件并推送到 WebSocket
	a.notifier.Start()

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Serve(listener); err != nil {
			a.logger.Error("HTTP server stopped unexpectedly",
				"error", err,
			)
			a.serveErr <- err
		}
	}()

	// mDNS 广播失败不影响本地使用
	if err := a.advertiser.Start(config.Version); err != nil {
		a.logger.Warn("Failed to start mDNS advertiser",
			"error", err,
		)
	}

	a.logger.Info("todod started successfully",
		"addr", listener.Addr().String(),
		"mcp_enabled", a.MCPServer.Enabled(),
	)
	return nil
}

// Done HTTP 服务异常退出时可读
func (a *App) Done() <-chan error {
	return a.serveErr
}

// Stop 停止所有服务，可重复调用
// 快照仓储由 wire 的 cleanup 关闭
func (a *App) Stop() error {
	var errs []error
	a.stopOnce.Do(func() {
		a.logger.Info("Stopping todod")

		a.advertiser.Stop()

		if err := a.HTTPServer.Stop(); err != nil {
			a.logger.Error("Failed to stop HTTP server",
				"error", err,
			)
			errs = append(errs, err)
		}

		// 先停订阅，再等待已发布事件处理完，最后断开客户端
		a.notifier.Stop()
		a.eventBus.Close()
		a.wsHub.Close()

		a.logger.Info("todod stopped")
	})
	return errors.Join(errs...)
}
