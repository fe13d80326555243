package todo

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/todod/backend/internal/domain/events"
	"github.com/todod/backend/internal/domain/todo"
	"github.com/todod/backend/internal/infrastructure/log"
	"github.com/todod/backend/internal/infrastructure/metrics"
)

// 操作名称，用于日志、指标和持久化错误
const (
	OpInitialize     = "initialize"
	OpRestore        = "restore"
	OpCreate         = "create"
	OpUpdate         = "update"
	OpDelete         = "delete"
	OpClearCompleted = "clear_completed"
	OpGet            = "get"
	OpListAll        = "list_all"
	OpListPage       = "list_page"
	OpListLatest     = "list_latest"
	OpStats          = "stats"
)

// 指标中的结果标签
const (
	resultSuccess  = "success"
	resultNotFound = "not_found"
	resultError    = "error"
)

// Service 待办应用服务
// 持有进程内唯一的待办列表，所有操作互斥执行；
// 每次变更都在返回前整体提交快照，提交失败则回滚内存状态。
// 未调用 Initialize/Restore 时，首次操作会自动从快照仓储恢复。
type Service struct {
	mu          sync.Mutex
	list        *todo.List
	store       todo.SnapshotStore
	publisher   events.Publisher
	metrics     *metrics.Metrics
	logger      *slog.Logger
	initialized bool
}

// NewService 创建待办应用服务
// publisher 和 m 可以为 nil
func NewService(store todo.SnapshotStore, publisher events.Publisher, m *metrics.Metrics) *Service {
	return &Service{
		list:      todo.NewList(),
		store:     store,
		publisher: publisher,
		metrics:   m,
		logger:    log.NewModuleLogger("todo", "service"),
	}
}

// Initialize 清空列表、计数器归零并提交空快照
func (s *Service) Initialize(ctx context.Context) (err error) {
	defer s.observe(OpInitialize, time.Now(), &err, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.list.Snapshot()
	s.list.Reset()
	if err := s.commit(ctx, OpInitialize, prev); err != nil {
		return err
	}
	s.initialized = true

	log.FromContext(ctx, s.logger).Info("Todo list initialized")
	s.publish(&events.TodoEvent{EventType: events.TodoReset})
	return nil
}

// Restore 从快照仓储整体恢复列表
// 仓储为空时恢复为空列表
func (s *Service) Restore(ctx context.Context) (err error) {
	defer s.observe(OpRestore, time.Now(), &err, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.restoreLocked(ctx)
}

// restoreLocked 调用方需持有锁
func (s *Service) restoreLocked(ctx context.Context) error {
	snapshot, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to restore todo snapshot",
			"error", err,
		)
		return &todo.PersistenceError{Op: OpRestore, Err: err}
	}

	if snapshot == nil {
		s.list.Reset()
	} else {
		s.list.Restore(*snapshot)
	}
	s.initialized = true
	s.metrics.SetItems(s.list.Len())

	s.logger.Info("Todo list restored",
		"items", s.list.Len(),
		"last_id", s.list.LastID(),
	)
	return nil
}

// ensureInitialized 未初始化时自动恢复，调用方需持有锁
func (s *Service) ensureInitialized(ctx context.Context) error {
	if s.initialized {
		return nil
	}
	s.logger.Warn("Todo list accessed before initialization, restoring from store")
	return s.restoreLocked(ctx)
}

// Create 创建待办，返回新分配的 ID
func (s *Service) Create(ctx context.Context, description string) (id uint64, err error) {
	defer s.observe(OpCreate, time.Now(), &err, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return 0, err
	}

	prev := s.list.Snapshot()
	item := s.list.Create(description)
	if err := s.commit(ctx, OpCreate, prev); err != nil {
		return 0, err
	}

	log.FromContext(ctx, s.logger).Debug("Todo created",
		"id", item.ID,
	)
	s.publish(&events.TodoEvent{EventType: events.TodoCreated, Item: &item})
	return item.ID, nil
}

// Update 部分更新待办，未提供的字段保持不变
// 两个字段都未提供时是合法的空操作，仍返回成功
func (s *Service) Update(ctx context.Context, id uint64, description *string, completed *bool) (status todo.Status, err error) {
	defer s.observe(OpUpdate, time.Now(), &err, &status)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return todo.StatusNotFound, err
	}

	if _, ok := s.list.Get(id); !ok {
		return todo.StatusNotFound, nil
	}

	patch := todo.Patch{Description: description, Completed: completed}
	prev := s.list.Snapshot()
	item, _ := s.list.Update(id, patch)
	if err := s.commit(ctx, OpUpdate, prev); err != nil {
		return todo.StatusNotFound, err
	}

	log.FromContext(ctx, s.logger).Debug("Todo updated",
		"id", id,
		"empty_patch", patch.Empty(),
	)
	s.publish(&events.TodoEvent{EventType: events.TodoUpdated, Item: &item})
	return todo.StatusSuccess, nil
}

// Delete 删除待办，ID 不会被复用
func (s *Service) Delete(ctx context.Context, id uint64) (status todo.Status, err error) {
	defer s.observe(OpDelete, time.Now(), &err, &status)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return todo.StatusNotFound, err
	}

	if _, ok := s.list.Get(id); !ok {
		return todo.StatusNotFound, nil
	}

	prev := s.list.Snapshot()
	item, _ := s.list.Delete(id)
	if err := s.commit(ctx, OpDelete, prev); err != nil {
		return todo.StatusNotFound, err
	}

	log.FromContext(ctx, s.logger).Debug("Todo deleted",
		"id", id,
	)
	s.publish(&events.TodoEvent{EventType: events.TodoDeleted, Item: &item})
	return todo.StatusSuccess, nil
}

// ClearCompleted 删除所有已完成的待办，返回删除数量
func (s *Service) ClearCompleted(ctx context.Context) (n int, err error) {
	defer s.observe(OpClearCompleted, time.Now(), &err, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return 0, err
	}

	prev := s.list.Snapshot()
	ids := s.list.DeleteCompleted()
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.commit(ctx, OpClearCompleted, prev); err != nil {
		return 0, err
	}

	log.FromContext(ctx, s.logger).Info("Completed todos cleared",
		"count", len(ids),
	)
	s.publish(&events.TodoEvent{EventType: events.TodoCleared, IDs: ids})
	return len(ids), nil
}

// Get 根据 ID 查找待办，不存在时返回 todo.ErrNotFound
func (s *Service) Get(ctx context.Context, id uint64) (item todo.Todo, err error) {
	defer s.observe(OpGet, time.Now(), &err, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return todo.Todo{}, err
	}

	item, ok := s.list.Get(id)
	if !ok {
		return todo.Todo{}, todo.ErrNotFound
	}
	return item, nil
}

// ListAll 返回全部待办的副本，按 ID 升序
func (s *Service) ListAll(ctx context.Context) (items []todo.Todo, err error) {
	defer s.observe(OpListAll, time.Now(), &err, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	return s.list.All(), nil
}

// ListPage 按 ID 升序分页，越界或 pageSize 为 0 时返回空切片
func (s *Service) ListPage(ctx context.Context, pageNumber, pageSize uint64) (items []todo.Todo, err error) {
	defer s.observe(OpListPage, time.Now(), &err, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	return s.list.Page(pageNumber, pageSize), nil
}

// ListPageWithTotal 同 ListPage，并返回同一时刻的待办总数
// 分页数据与总数在同一次加锁内读取，保证一致
func (s *Service) ListPageWithTotal(ctx context.Context, pageNumber, pageSize uint64) (items []todo.Todo, total int, err error) {
	defer s.observe(OpListPage, time.Now(), &err, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, 0, err
	}
	return s.list.Page(pageNumber, pageSize), s.list.Len(), nil
}

// ListLatest 返回 ID 最大的至多 10 条待办，按 ID 降序
func (s *Service) ListLatest(ctx context.Context) (items []todo.Todo, err error) {
	defer s.observe(OpListLatest, time.Now(), &err, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return nil, err
	}
	return s.list.Latest(todo.LatestLimit), nil
}

// Stats 返回待办统计
func (s *Service) Stats(ctx context.Context) (stats todo.Stats, err error) {
	defer s.observe(OpStats, time.Now(), &err, nil)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureInitialized(ctx); err != nil {
		return todo.Stats{}, err
	}
	return s.list.Stats(), nil
}

// commit 持久化当前状态，失败时回滚到 prev，调用方需持有锁
func (s *Service) commit(ctx context.Context, op string, prev todo.Snapshot) error {
	// 提交不随调用方取消而中断，调用方只在提交落盘后才看到成功
	if err := s.store.Save(context.WithoutCancel(ctx), s.list.Snapshot()); err != nil {
		s.list.Restore(prev)
		s.metrics.PersistFailed()
		log.FromContext(ctx, s.logger).Error("Failed to commit todo snapshot, rolled back",
			"op", op,
			"error", err,
		)
		return &todo.PersistenceError{Op: op, Err: err}
	}
	s.metrics.SetItems(s.list.Len())
	return nil
}

// publish 发布事件，调用方需持有锁
func (s *Service) publish(event *events.TodoEvent) {
	if s.publisher == nil {
		return
	}
	event.LastID = s.list.LastID()
	event.EventTime = time.Now()
	s.publisher.Publish(event)
}

// observe 记录操作指标
func (s *Service) observe(op string, started time.Time, err *error, status *todo.Status) {
	result := resultSuccess
	switch {
	case *err != nil:
		result = resultError
	case status != nil && *status == todo.StatusNotFound:
		result = resultNotFound
	}
	s.metrics.Observe(op, result, started)
}
