package todo

// LatestLimit 最新待办列表的最大条数
const LatestLimit = 10

// Todo 待办事项实体
type Todo struct {
	ID          uint64 `json:"id"`          // 唯一标识，由 List 分配
	Description string `json:"description"` // 待办内容
	Completed   bool   `json:"completed"`   // 是否完成
}

// MarkComplete 标记为完成
func (t *Todo) MarkComplete() {
	t.Completed = true
}

// MarkIncomplete 标记为未完成
func (t *Todo) MarkIncomplete() {
	t.Completed = false
}

// Patch 部分更新，nil 字段保持不变
type Patch struct {
	Description *string
	Completed   *bool
}

// Apply 将补丁应用到待办上
func (p Patch) Apply(t *Todo) {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		if *p.Completed {
			t.MarkComplete()
		} else {
			t.MarkIncomplete()
		}
	}
}

// Empty 补丁是否不包含任何字段
func (p Patch) Empty() bool {
	return p.Description == nil && p.Completed == nil
}

// Status 更新/删除操作的结果
type Status int

const (
	// StatusSuccess 操作成功
	StatusSuccess Status = iota
	// StatusNotFound 待办不存在
	StatusNotFound
)

const (
	// MessageUpdated 更新成功消息
	MessageUpdated = "Todo item updated successfully"
	// MessageDeleted 删除成功消息
	MessageDeleted = "Todo item deleted successfully"
	// MessageNotFound 待办不存在消息
	MessageNotFound = "Todo item not found"
)

// String 返回状态名称
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Stats 待办统计
type Stats struct {
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Pending   int    `json:"pending"`
	LastID    uint64 `json:"lastId"`
}

// Snapshot 持久化快照：完整记录集合 + 计数器
// Items 按 ID 升序排列
type Snapshot struct {
	LastID uint64 `json:"last_id"`
	Items  []Todo `json:"items"`
}

// MaxID 返回快照中最大的 ID
func (s *Snapshot) MaxID() uint64 {
	var maxID uint64
	for _, item := range s.Items {
		if item.ID > maxID {
			maxID = item.ID
		}
	}
	return maxID
}
