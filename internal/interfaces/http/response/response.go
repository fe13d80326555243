package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/todod/backend/internal/infrastructure/log"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 错误响应
// RequestID 与响应头 X-Request-ID 一致，便于对照服务端日志
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	SuccessWithMessage(c, "success", data)
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: message,
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, message string) {
	ErrorWithDetail(c, httpCode, errCode, message, "")
}

// ErrorWithDetail 带详情的错误响应
func ErrorWithDetail(c *gin.Context, httpCode int, errCode int, message, detail string) {
	c.JSON(httpCode, ErrorResponse{
		Code:      errCode,
		Message:   message,
		Detail:    detail,
		RequestID: log.RequestIDFromContext(c.Request.Context()),
	})
}

// PageInfo 分页信息
type PageInfo struct {
	Page     uint64 `json:"page"`     // 当前页码（从 0 开始）
	PageSize uint64 `json:"pageSize"` // 每页条数
	Total    int    `json:"total"`    // 总条数
	Pages    uint64 `json:"pages"`    // 总页数
}

// ResponseWithPage 带分页的响应结构
type ResponseWithPage struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Page    *PageInfo   `json:"page,omitempty"`
}

// SuccessWithPage 成功响应（带分页）
func SuccessWithPage(c *gin.Context, data interface{}, page, pageSize uint64, total int) {
	var pages uint64
	if pageSize > 0 {
		pages = uint64(total) / pageSize
		if uint64(total)%pageSize != 0 {
			pages++
		}
	}
	c.JSON(http.StatusOK, ResponseWithPage{
		Code:    0,
		Message: "success",
		Data:    data,
		Page: &PageInfo{
			Page:     page,
			PageSize: pageSize,
			Total:    total,
			Pages:    pages,
		},
	})
}
