package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apptodo "github.com/todod/backend/internal/application/todo"
	"github.com/todod/backend/internal/domain/todo"
	"github.com/todod/backend/internal/infrastructure/log"
	"github.com/todod/backend/internal/interfaces/http/response"
)

// 待办接口错误码
const (
	codeInvalidParam = 100001
	codeListFailed   = 800001
	codeCreateFailed = 800002
	codeQueryFailed  = 800003
	codeNotFound     = 800004
	codeUpdateFailed = 800005
	codeDeleteFailed = 800006
	codeClearFailed  = 800007
	codeResetFailed  = 800008
	codeStatsFailed  = 800009
	defaultPageSize  = 20
)

// TodoHandler 待办事项处理器
type TodoHandler struct {
	service *apptodo.Service
	logger  *slog.Logger
}

// NewTodoHandler 创建待办事项处理器
func NewTodoHandler(service *apptodo.Service) *TodoHandler {
	return &TodoHandler{
		service: service,
		logger:  log.NewModuleLogger("http", "todo_handler"),
	}
}

// CreateTodoRequest 创建待办请求
type CreateTodoRequest struct {
	Description *string `json:"description" binding:"required"`
}

// CreateTodoResponse 创建待办响应
type CreateTodoResponse struct {
	ID uint64 `json:"id"`
}

// UpdateTodoRequest 更新待办请求，未提供的字段保持不变
type UpdateTodoRequest struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// ClearCompletedResponse 清除已完成待办响应
type ClearCompletedResponse struct {
	Deleted int `json:"deleted"`
}

// List 获取全部待办
// @Summary 获取全部待办
// @Description 按 ID 升序返回全部待办
// @Tags 待办
// @Produce json
// @Success 200 {object} response.Response{data=[]todo.Todo}
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) List(c *gin.Context) {
	items, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, codeListFailed, "获取待办列表失败", err)
		return
	}
	response.Success(c, items)
}

// Page 分页获取待办
// @Summary 分页获取待办
// @Description 按 ID 升序分页，page 从 0 开始；越界时返回空列表
// @Tags 待办
// @Produce json
// @Param page query int false "页码（从 0 开始）" default(0)
// @Param pageSize query int false "每页条数" default(20)
// @Success 200 {object} response.ResponseWithPage{data=[]todo.Todo}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/page [get]
func (h *TodoHandler) Page(c *gin.Context) {
	page, err := parseUintQuery(c, "page", 0)
	if err != nil {
		response.Error(c, http.StatusBadRequest, codeInvalidParam, "page 参数错误")
		return
	}
	pageSize, err := parseUintQuery(c, "pageSize", defaultPageSize)
	if err != nil {
		response.Error(c, http.StatusBadRequest, codeInvalidParam, "pageSize 参数错误")
		return
	}

	items, total, err := h.service.ListPageWithTotal(c.Request.Context(), page, pageSize)
	if err != nil {
		h.fail(c, codeListFailed, "获取待办列表失败", err)
		return
	}
	response.SuccessWithPage(c, items, page, pageSize, total)
}

// Latest 获取最新待办
// @Summary 获取最新待办
// @Description 返回 ID 最大的至多 10 条待办，按 ID 降序
// @Tags 待办
// @Produce json
// @Success 200 {object} response.Response{data=[]todo.Todo}
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/latest [get]
func (h *TodoHandler) Latest(c *gin.Context) {
	items, err := h.service.ListLatest(c.Request.Context())
	if err != nil {
		h.fail(c, codeListFailed, "获取最新待办失败", err)
		return
	}
	response.Success(c, items)
}

// Stats 获取待办统计
// @Summary 获取待办统计
// @Tags 待办
// @Produce json
// @Success 200 {object} response.Response{data=todo.Stats}
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/stats [get]
func (h *TodoHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, codeStatsFailed, "获取待办统计失败", err)
		return
	}
	response.Success(c, stats)
}

// Get 获取单个待办
// @Summary 获取单个待办
// @Tags 待办
// @Produce json
// @Param id path int true "待办ID"
// @Success 200 {object} response.Response{data=todo.Todo}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /todos/{id} [get]
func (h *TodoHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, todo.ErrNotFound) {
		response.Error(c, http.StatusNotFound, codeNotFound, todo.MessageNotFound)
		return
	}
	if err != nil {
		h.fail(c, codeQueryFailed, "查询待办失败", err)
		return
	}
	response.Success(c, item)
}

// Create 创建待办
// @Summary 创建待办
// @Tags 待办
// @Accept json
// @Produce json
// @Param body body CreateTodoRequest true "待办内容"
// @Success 200 {object} response.Response{data=CreateTodoResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, codeInvalidParam, "参数错误")
		return
	}

	id, err := h.service.Create(c.Request.Context(), *req.Description)
	if err != nil {
		h.fail(c, codeCreateFailed, "创建待办失败", err)
		return
	}
	response.Success(c, CreateTodoResponse{ID: id})
}

// Update 部分更新待办
// @Summary 更新待办
// @Description 只修改请求中出现的字段；两个字段都不提供时视为成功
// @Tags 待办
// @Accept json
// @Produce json
// @Param id path int true "待办ID"
// @Param body body UpdateTodoRequest true "更新内容"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/{id} [patch]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, codeInvalidParam, "参数错误")
		return
	}

	status, err := h.service.Update(c.Request.Context(), id, req.Description, req.Completed)
	if err != nil {
		h.fail(c, codeUpdateFailed, "更新待办失败", err)
		return
	}
	if status == todo.StatusNotFound {
		response.Error(c, http.StatusNotFound, codeNotFound, todo.MessageNotFound)
		return
	}
	response.SuccessWithMessage(c, todo.MessageUpdated, nil)
}

// Delete 删除待办
// @Summary 删除待办
// @Tags 待办
// @Produce json
// @Param id path int true "待办ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	status, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, codeDeleteFailed, "删除待办失败", err)
		return
	}
	if status == todo.StatusNotFound {
		response.Error(c, http.StatusNotFound, codeNotFound, todo.MessageNotFound)
		return
	}
	response.SuccessWithMessage(c, todo.MessageDeleted, nil)
}

// DeleteCompleted 清除所有已完成待办
// @Summary 清除已完成待办
// @Tags 待办
// @Produce json
// @Success 200 {object} response.Response{data=ClearCompletedResponse}
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/completed [delete]
func (h *TodoHandler) DeleteCompleted(c *gin.Context) {
	n, err := h.service.ClearCompleted(c.Request.Context())
	if err != nil {
		h.fail(c, codeClearFailed, "清除已完成待办失败", err)
		return
	}
	response.Success(c, ClearCompletedResponse{Deleted: n})
}

// Reset 清空列表并重置 ID 计数器
// @Summary 重置待办列表
// @Tags 待办
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse
// @Router /todos/reset [post]
func (h *TodoHandler) Reset(c *gin.Context) {
	if err := h.service.Initialize(c.Request.Context()); err != nil {
		h.fail(c, codeResetFailed, "重置待办列表失败", err)
		return
	}
	response.Success(c, nil)
}

// fail 记录日志并返回 500，持久化失败时附带详情
func (h *TodoHandler) fail(c *gin.Context, code int, message string, err error) {
	log.FromContext(c.Request.Context(), h.logger).Error(message,
		"error", err,
	)
	if errors.Is(err, todo.ErrPersistence) {
		response.ErrorWithDetail(c, http.StatusInternalServerError, code, message, err.Error())
		return
	}
	response.Error(c, http.StatusInternalServerError, code, message)
}

// parseID 解析路径中的待办 ID，失败时已写入 400 响应
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, codeInvalidParam, "待办ID格式错误")
		return 0, false
	}
	return id, true
}

// parseUintQuery 解析非负整数查询参数，缺省时返回 def
func parseUintQuery(c *gin.Context, key string, def uint64) (uint64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	return strconv.ParseUint(raw, 10, 64)
}
