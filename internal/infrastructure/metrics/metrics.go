// Package metrics 提供待办存储的 Prometheus 指标
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics 待办存储指标
// 所有指标使用 todod_ 前缀
type Metrics struct {
	// OperationsTotal 按操作和结果统计的调用次数
	OperationsTotal *prometheus.CounterVec

	// OperationDuration 操作耗时（含持久化提交）
	OperationDuration *prometheus.HistogramVec

	// Items 当前待办数量
	Items prometheus.Gauge

	// PersistFailures 提交失败并回滚的次数
	PersistFailures prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics 在独立的 registry 上创建指标
// 同时注册 Go 运行时和进程指标
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewMetricsWithRegistry(reg)
}

// NewMetricsWithRegistry 在指定 registry 上创建指标
// 注册失败会 panic（仅在初始化阶段发生）
func NewMetricsWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		OperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todod_operations_total",
				Help: "Total todo store operations by operation and status",
			},
			[]string{"operation", "status"}, // status: "success", "not_found", "error"
		),
		OperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todod_operation_duration_seconds",
				Help:    "Todo store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		Items: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "todod_items",
				Help: "Current number of todo items",
			},
		),
		PersistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "todod_persist_failures_total",
				Help: "Total snapshot commits that failed and were rolled back",
			},
		),
		registry: reg,
	}

	reg.MustRegister(
		m.OperationsTotal,
		m.OperationDuration,
		m.Items,
		m.PersistFailures,
	)

	return m
}

// Observe 记录一次完成的操作，nil 接收者安全
func (m *Metrics) Observe(operation, status string, started time.Time) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// SetItems 更新待办数量，nil 接收者安全
func (m *Metrics) SetItems(n int) {
	if m == nil {
		return
	}
	m.Items.Set(float64(n))
}

// PersistFailed 记录一次回滚的提交，nil 接收者安全
func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

// Handler 返回暴露该 registry 的 HTTP 处理器
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
