// Package events 定义待办领域事件类型和接口
// 用于变更推送等进程内事件驱动通信
package events

import "time"

// EventType 事件类型标识
type EventType string

// 待办相关事件类型
const (
	// TodoCreated 待办创建事件
	TodoCreated EventType = "todo.created"
	// TodoUpdated 待办更新事件
	TodoUpdated EventType = "todo.updated"
	// TodoDeleted 待办删除事件
	TodoDeleted EventType = "todo.deleted"
	// TodoCleared 批量清除已完成待办事件
	TodoCleared EventType = "todo.cleared"
	// TodoReset 列表重置事件
	TodoReset EventType = "todo.reset"
)

// AllTodoEvents 所有待办事件类型
var AllTodoEvents = []EventType{
	TodoCreated,
	TodoUpdated,
	TodoDeleted,
	TodoCleared,
	TodoReset,
}

// Event 领域事件接口
// 所有事件类型都必须实现此接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Timestamp 返回事件发生时间
	Timestamp() time.Time
}
