package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/todod/backend/internal/infrastructure/config"
	"github.com/todod/backend/internal/infrastructure/singleton"
)

// HealthHandler 健康检查处理器
type HealthHandler struct {
	storage *config.StorageConfig
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(storage *config.StorageConfig) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// HealthResponse 健康检查响应
// service 字段用于单例锁识别已运行的实例
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Storage string `json:"storage"`
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: singleton.ServiceName,
		Version: config.Version,
		Storage: h.storage.Driver,
	})
}
