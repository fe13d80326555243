package events

import (
	"time"

	"github.com/todod/backend/internal/domain/todo"
)

// TodoEvent 待办变更事件
// 仅在变更已持久化后发布
type TodoEvent struct {
	// EventType 事件类型
	EventType EventType `json:"type"`
	// Item 变更后的待办（删除时为删除前的值，重置/清除时为空）
	Item *todo.Todo `json:"item,omitempty"`
	// IDs 批量清除时被删除的 ID
	IDs []uint64 `json:"ids,omitempty"`
	// LastID 事件发生后的计数器值
	LastID uint64 `json:"lastId"`
	// EventTime 事件发生时间
	EventTime time.Time `json:"time"`
}

// Type 实现 Event 接口
func (e *TodoEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *TodoEvent) Timestamp() time.Time {
	return e.EventTime
}
