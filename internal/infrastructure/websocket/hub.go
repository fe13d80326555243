// Package websocket 管理待办变更推送的 WebSocket 连接
package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/todod/backend/internal/infrastructure/log"
)

const (
	// sendBufferSize 单连接发送缓冲
	sendBufferSize = 64
	// writeWait 单次写入超时
	writeWait = 10 * time.Second
	// pongWait 超过该时间未收到任何消息则断开
	pongWait = 60 * time.Second
	// pingPeriod 必须小于 pongWait
	pingPeriod = pongWait * 9 / 10
	// maxMessageSize 客户端只发控制帧，限制读取大小
	maxMessageSize = 4 * 1024
)

// ErrHubClosed Hub 已关闭
var ErrHubClosed = errors.New("websocket hub closed")

// Hub WebSocket 连接管理中心
// 只做服务端到客户端的单向广播
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Connection]struct{}
	closed   bool
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// Connection 单个 WebSocket 连接
type Connection struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
	done chan struct{}
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Connection]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // 本地服务，允许所有来源
			},
		},
		logger: log.NewModuleLogger("websocket", "hub"),
	}
}

// HandleConnection 升级 HTTP 连接并注册到 Hub
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade connection",
			"remote", r.RemoteAddr,
			"error", err,
		)
		return
	}

	c := &Connection{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("Client connected",
		"remote", r.RemoteAddr,
		"clients", count,
	)

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast 序列化消息并推送给所有连接
// 发送缓冲已满的连接会被断开
func (h *Hub) Broadcast(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return ErrHubClosed
	}
	var slow []*Connection
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Send buffer full, dropping client")
		h.unregister(c)
	}
	return nil
}

// ClientCount 返回当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close 断开所有连接，之后的广播返回 ErrHubClosed
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = make(map[*Connection]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
	h.logger.Info("WebSocket hub closed",
		"clients", len(clients),
	)
}

// unregister 注销并关闭连接，可重复调用
func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// readPump 丢弃客户端消息，只用于感知断开和续期心跳
func (h *Hub) readPump(c *Connection) {
	defer h.unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("Connection read error",
					"error", err,
				)
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// writePump 串行写入消息和心跳，gorilla 连接不支持并发写
func (h *Hub) writePump(c *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			_ = c.conn.Close()
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.Warn("Failed to write message",
					"error", err,
				)
				h.unregister(c)
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
			}
		}
	}
}

// close 通知写协程退出
func (c *Connection) close() {
	c.once.Do(func() {
		close(c.done)
	})
}
