package todo

import (
	"cmp"
	"math/bits"
	"slices"
)

// List 待办聚合根：按 ID 索引的集合 + 单调递增的 ID 计数器
// List 本身不加锁，由调用方串行访问
type List struct {
	items  map[uint64]Todo
	lastID uint64
}

// NewList 创建空列表
func NewList() *List {
	return &List{items: make(map[uint64]Todo)}
}

// Reset 清空列表并将计数器归零
func (l *List) Reset() {
	l.items = make(map[uint64]Todo)
	l.lastID = 0
}

// LastID 返回最近分配的 ID
func (l *List) LastID() uint64 {
	return l.lastID
}

// Len 返回待办数量
func (l *List) Len() int {
	return len(l.items)
}

// Create 分配新 ID 并插入未完成的待办
func (l *List) Create(description string) Todo {
	l.lastID++
	item := Todo{
		ID:          l.lastID,
		Description: description,
		Completed:   false,
	}
	l.items[item.ID] = item
	return item
}

// Get 根据 ID 查找待办
func (l *List) Get(id uint64) (Todo, bool) {
	item, ok := l.items[id]
	return item, ok
}

// Update 对已存在的待办应用部分更新
func (l *List) Update(id uint64, patch Patch) (Todo, bool) {
	item, ok := l.items[id]
	if !ok {
		return Todo{}, false
	}
	patch.Apply(&item)
	l.items[id] = item
	return item, true
}

// Delete 删除待办，ID 不会被复用
func (l *List) Delete(id uint64) (Todo, bool) {
	item, ok := l.items[id]
	if !ok {
		return Todo{}, false
	}
	delete(l.items, id)
	return item, true
}

// DeleteCompleted 删除所有已完成的待办，返回删除的 ID（升序）
func (l *List) DeleteCompleted() []uint64 {
	var ids []uint64
	for id, item := range l.items {
		if item.Completed {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		delete(l.items, id)
	}
	slices.Sort(ids)
	return ids
}

// All 返回全部待办的副本，按 ID 升序
func (l *List) All() []Todo {
	all := make([]Todo, 0, len(l.items))
	for _, item := range l.items {
		all = append(all, item)
	}
	slices.SortFunc(all, func(a, b Todo) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return all
}

// Page 返回按 ID 升序排列后 [page*size, min(page*size+size, total)) 区间的待办
// size 为 0、起点越界或乘法溢出时返回空切片
func (l *List) Page(page, size uint64) []Todo {
	if size == 0 {
		return []Todo{}
	}
	hi, start := bits.Mul64(page, size)
	total := uint64(len(l.items))
	if hi != 0 || start >= total {
		return []Todo{}
	}
	end := total
	if size < total-start {
		end = start + size
	}
	return l.All()[start:end]
}

// Latest 返回 ID 最大的至多 n 条待办，按 ID 降序
func (l *List) Latest(n int) []Todo {
	all := l.All()
	slices.Reverse(all)
	if len(all) > n {
		all = all[:n]
	}
	return all
}

// Stats 统计完成情况
func (l *List) Stats() Stats {
	stats := Stats{Total: len(l.items), LastID: l.lastID}
	for _, item := range l.items {
		if item.Completed {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats
}

// Snapshot 导出完整状态
func (l *List) Snapshot() Snapshot {
	return Snapshot{
		LastID: l.lastID,
		Items:  l.All(),
	}
}

// Restore 用快照整体替换当前状态
// 计数器取快照计数器与最大 ID 中的较大者，保证不回退
func (l *List) Restore(snapshot Snapshot) {
	items := make(map[uint64]Todo, len(snapshot.Items))
	for _, item := range snapshot.Items {
		items[item.ID] = item
	}
	l.items = items
	l.lastID = max(snapshot.LastID, snapshot.MaxID())
}
