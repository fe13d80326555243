package notification

import (
	"github.com/todod/backend/internal/application/notification"
	"github.com/todod/backend/internal/domain/events"
	"github.com/todod/backend/internal/infrastructure/websocket"
)

// WebSocketPusher WebSocket 推送实现
type WebSocketPusher struct {
	hub *websocket.Hub
}

// NewWebSocketPusher 创建 WebSocket 推送器
func NewWebSocketPusher(hub *websocket.Hub) *WebSocketPusher {
	return &WebSocketPusher{hub: hub}
}

// Push 广播给所有连接的客户端
func (p *WebSocketPusher) Push(event events.Event) error {
	return p.hub.Broadcast(event)
}

// 编译时检查接口实现
var _ notification.Pusher = (*WebSocketPusher)(nil)
