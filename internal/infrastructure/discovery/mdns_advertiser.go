// Package discovery 通过 mDNS 在局域网内广播 todod 服务
package discovery

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sort"
	"strconv"
	"sync"

	"github.com/grandcat/zeroconf"
	"github.com/todod/backend/internal/infrastructure/config"
	"github.com/todod/backend/internal/infrastructure/log"
)

const (
	// ServiceType mDNS 服务类型
	ServiceType = "_todod._tcp"
	// Domain mDNS 域
	Domain = "local."
)

// ErrAlreadyRunning 广播器已在运行
var ErrAlreadyRunning = errors.New("advertiser is already running")

// shutdowner 已注册的 mDNS 服务
type shutdowner interface {
	Shutdown()
}

// registerFunc 注册 mDNS 服务，测试中可替换
type registerFunc func(instance, service, domain string, port int, txt []string, ifaces []net.Interface) (shutdowner, error)

// zeroconfRegister 使用 zeroconf 注册服务
func zeroconfRegister(instance, service, domain string, port int, txt []string, ifaces []net.Interface) (shutdowner, error) {
	server, err := zeroconf.Register(instance, service, domain, port, txt, ifaces)
	if err != nil {
		return nil, err
	}
	return server, nil
}

// ServiceInfo 广播的服务信息
type ServiceInfo struct {
	InstanceName string
	Port         int
	TxtRecords   map[string]string
}

// MDNSAdvertiser mDNS 服务广播器
type MDNSAdvertiser struct {
	mu       sync.RWMutex
	cfg      *config.DiscoveryConfig
	server   *config.ServerConfig
	storage  *config.StorageConfig
	register registerFunc
	running  shutdowner
	info     *ServiceInfo
	logger   *slog.Logger
}

// NewMDNSAdvertiser 创建 mDNS 广播器
func NewMDNSAdvertiser(cfg *config.DiscoveryConfig, server *config.ServerConfig, storage *config.StorageConfig) *MDNSAdvertiser {
	return &MDNSAdvertiser{
		cfg:      cfg,
		server:   server,
		storage:  storage,
		register: zeroconfRegister,
		logger:   log.NewModuleLogger("discovery", "mdns_advertiser"),
	}
}

// Enabled 配置中是否开启服务发现
func (a *MDNSAdvertiser) Enabled() bool {
	return a.cfg != nil && a.cfg.Enabled
}

// Start 开始广播服务，未开启时直接返回
func (a *MDNSAdvertiser) Start(version string) error {
	if !a.Enabled() {
		a.logger.Debug("mDNS discovery disabled")
		return nil
	}

	info, err := a.BuildServiceInfo(version)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running != nil {
		return ErrAlreadyRunning
	}

	txt := txtRecords(info.TxtRecords)
	server, err := a.register(info.InstanceName, ServiceType, Domain, info.Port, txt, nil)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}

	a.running = server
	a.info = &info

	a.logger.Info("mDNS advertiser started",
		"instance", info.InstanceName,
		"service", ServiceType,
		"port", info.Port,
		"txt_records", txt,
	)
	return nil
}

// Stop 停止广播，可重复调用
func (a *MDNSAdvertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running == nil {
		return
	}
	a.running.Shutdown()
	a.running = nil
	a.info = nil

	a.logger.Info("mDNS advertiser stopped")
}

// IsRunning 是否正在广播
func (a *MDNSAdvertiser) IsRunning() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.running != nil
}

// GetInfo 获取当前广播的服务信息
func (a *MDNSAdvertiser) GetInfo() *ServiceInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.info == nil {
		return nil
	}
	infoCopy := *a.info
	return &infoCopy
}

// BuildServiceInfo 根据配置构建服务信息
func (a *MDNSAdvertiser) BuildServiceInfo(version string) (ServiceInfo, error) {
	port, err := parsePort(a.server.HTTPPort)
	if err != nil {
		return ServiceInfo{}, err
	}
	return ServiceInfo{
		InstanceName: a.cfg.InstanceName,
		Port:         port,
		TxtRecords: map[string]string{
			"version": version,
			"storage": a.storage.Driver,
			"api":     "/api/v1/todos",
		},
	}, nil
}

// parsePort 从 ":19970" 或 "host:19970" 中取出端口
func parsePort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port in listen address %q", addr)
	}
	return port, nil
}

// txtRecords 按 key 排序生成 TXT 记录
func txtRecords(records map[string]string) []string {
	txt := make([]string, 0, len(records))
	for k, v := range records {
		txt = append(txt, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(txt)
	return txt
}
