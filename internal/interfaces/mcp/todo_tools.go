package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/todod/backend/internal/domain/todo"
	"github.com/todod/backend/internal/infrastructure/log"
)

// CreateTodoInput 创建待办工具输入
type CreateTodoInput struct {
	Description string `json:"description" jsonschema:"待办内容"`
}

// CreateTodoOutput 创建待办工具输出
type CreateTodoOutput struct {
	ID uint64 `json:"id" jsonschema:"新分配的待办 ID"`
}

// UpdateTodoInput 更新待办工具输入
type UpdateTodoInput struct {
	ID          uint64  `json:"id" jsonschema:"待办 ID"`
	Description *string `json:"description,omitempty" jsonschema:"新的待办内容，不提供则保持不变"`
	Completed   *bool   `json:"completed,omitempty" jsonschema:"是否完成，不提供则保持不变"`
}

// DeleteTodoInput 删除待办工具输入
type DeleteTodoInput struct {
	ID uint64 `json:"id" jsonschema:"待办 ID"`
}

// StatusOutput 更新/删除工具输出
type StatusOutput struct {
	Status  string `json:"status" jsonschema:"结果：success 或 not_found"`
	Message string `json:"message" jsonschema:"结果描述"`
}

// ListTodosInput 列表工具输入（空输入）
type ListTodosInput struct{}

// ListTodosPageInput 分页工具输入
type ListTodosPageInput struct {
	Page     uint64 `json:"page" jsonschema:"页码，从 0 开始"`
	PageSize uint64 `json:"page_size" jsonschema:"每页条数"`
}

// TodoListOutput 列表工具输出
type TodoListOutput struct {
	Items []todo.Todo `json:"items" jsonschema:"待办列表"`
	Count int         `json:"count" jsonschema:"本次返回条数"`
}

// registerTodoTools 注册待办工具
func (s *MCPServer) registerTodoTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_todo",
		Description: "Create a todo item. Parameters: description (string, required) - the todo text. Returns: the newly assigned id. Ids strictly increase and are never reused.",
	}, s.createTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "update_todo",
		Description: `Partially update a todo item.
Parameters:
- id (int, required): Todo id
- description (string, optional): New text, unchanged when omitted
- completed (bool, optional): New completion flag, unchanged when omitted

Returns: status "success" or "not_found" and a message.`,
	}, s.updateTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_todo",
		Description: "Delete a todo item. Parameters: id (int, required). Returns: status \"success\" or \"not_found\" and a message.",
	}, s.deleteTodoTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_todos",
		Description: "List all todo items in ascending id order. No parameters required.",
	}, s.listTodosTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name: "list_todos_page",
		Description: `List one page of todo items in ascending id order.
Parameters:
- page (int, required): Zero-based page number
- page_size (int, required): Items per page

Returns: the items in [page*page_size, page*page_size+page_size). Out of range pages are empty.`,
	}, s.listTodosPageTool)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_latest_todos",
		Description: "List up to 10 todo items with the highest ids, newest first. No parameters required.",
	}, s.listLatestTodosTool)
}

// createTodoTool 创建待办
func (s *MCPServer) createTodoTool(ctx context.Context, req *mcp.CallToolRequest, input CreateTodoInput) (*mcp.CallToolResult, CreateTodoOutput, error) {
	id, err := s.todos.Create(mcpContext(ctx), input.Description)
	if err != nil {
		return nil, CreateTodoOutput{}, fmt.Errorf("failed to create todo: %w", err)
	}
	return nil, CreateTodoOutput{ID: id}, nil
}

// updateTodoTool 部分更新待办
func (s *MCPServer) updateTodoTool(ctx context.Context, req *mcp.CallToolRequest, input UpdateTodoInput) (*mcp.CallToolResult, StatusOutput, error) {
	status, err := s.todos.Update(mcpContext(ctx), input.ID, input.Description, input.Completed)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("failed to update todo %d: %w", input.ID, err)
	}
	return nil, statusOutput(status, todo.MessageUpdated), nil
}

// deleteTodoTool 删除待办
func (s *MCPServer) deleteTodoTool(ctx context.Context, req *mcp.CallToolRequest, input DeleteTodoInput) (*mcp.CallToolResult, StatusOutput, error) {
	status, err := s.todos.Delete(mcpContext(ctx), input.ID)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("failed to delete todo %d: %w", input.ID, err)
	}
	return nil, statusOutput(status, todo.MessageDeleted), nil
}

// listTodosTool 列出全部待办
func (s *MCPServer) listTodosTool(ctx context.Context, req *mcp.CallToolRequest, input ListTodosInput) (*mcp.CallToolResult, TodoListOutput, error) {
	items, err := s.todos.ListAll(mcpContext(ctx))
	if err != nil {
		return nil, TodoListOutput{}, fmt.Errorf("failed to list todos: %w", err)
	}
	return nil, TodoListOutput{Items: items, Count: len(items)}, nil
}

// listTodosPageTool 分页列出待办
func (s *MCPServer) listTodosPageTool(ctx context.Context, req *mcp.CallToolRequest, input ListTodosPageInput) (*mcp.CallToolResult, TodoListOutput, error) {
	items, err := s.todos.ListPage(mcpContext(ctx), input.Page, input.PageSize)
	if err != nil {
		return nil, TodoListOutput{}, fmt.Errorf("failed to list todo page: %w", err)
	}
	return nil, TodoListOutput{Items: items, Count: len(items)}, nil
}

// listLatestTodosTool 列出最新待办
func (s *MCPServer) listLatestTodosTool(ctx context.Context, req *mcp.CallToolRequest, input ListTodosInput) (*mcp.CallToolResult, TodoListOutput, error) {
	items, err := s.todos.ListLatest(mcpContext(ctx))
	if err != nil {
		return nil, TodoListOutput{}, fmt.Errorf("failed to list latest todos: %w", err)
	}
	return nil, TodoListOutput{Items: items, Count: len(items)}, nil
}

// statusOutput 把操作状态转换为工具输出
func statusOutput(status todo.Status, successMessage string) StatusOutput {
	if status == todo.StatusNotFound {
		return StatusOutput{Status: status.String(), Message: todo.MessageNotFound}
	}
	return StatusOutput{Status: status.String(), Message: successMessage}
}

// mcpContext 标记调用来源，供日志使用
func mcpContext(ctx context.Context) context.Context {
	return log.WithTransport(ctx, "mcp")
}
