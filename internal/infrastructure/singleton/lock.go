// Package singleton 保证同一端口只运行一个 todod 实例
// 多个进程同时提交同一份快照会互相覆盖
package singleton

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

const (
	// ServiceName 健康检查中用于识别实例的服务名
	ServiceName = "todod"
	// HealthCheckTimeout 健康检查超时时间
	HealthCheckTimeout = 2 * time.Second
)

var (
	// ErrAlreadyRunning 已有健康的 todod 实例在监听该端口
	ErrAlreadyRunning = errors.New("todod instance already running")
	// ErrPortBusy 端口被其他进程占用
	ErrPortBusy = errors.New("port in use by an unhealthy or foreign process")
)

// healthResponse /health 响应中用于识别实例的字段
type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// CheckAndLock 监听端口
// 端口被健康的 todod 占用时返回 ErrAlreadyRunning，调用者应退出；
// 被其他进程占用时返回 ErrPortBusy
func CheckAndLock(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err == nil {
		return listener, nil
	}

	if !isAddrInUse(err) {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	if isInstanceRunning(addr) {
		return nil, ErrAlreadyRunning
	}
	return nil, fmt.Errorf("%s: %w", addr, ErrPortBusy)
}

// isAddrInUse 检查错误是否是地址已在使用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	// Windows: WSAEADDRINUSE (10048)
	var errno syscall.Errno
	if errors.As(err, &errno) && errno == 10048 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "address already in use") ||
		strings.Contains(msg, "Only one usage of each socket address")
}

// isInstanceRunning 检查端口上是否是健康的 todod 实例
func isInstanceRunning(addr string) bool {
	client := &http.Client{
		Timeout: HealthCheckTimeout,
	}

	resp, err := client.Get(healthURL(addr))
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var health healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return false
	}
	return health.Service == ServiceName
}

// healthURL 由监听地址构造本机健康检查地址
func healthURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Sprintf("http://localhost%s/health", addr)
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s/health", net.JoinHostPort(host, port))
}
