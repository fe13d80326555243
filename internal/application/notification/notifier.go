package notification

import (
	"log/slog"
	"sync"

	"github.com/todod/backend/internal/domain/events"
	"github.com/todod/backend/internal/infrastructure/log"
)

// ChangeNotifier 订阅待办事件并推送给客户端
type ChangeNotifier struct {
	bus    events.EventBus
	pusher Pusher
	logger *slog.Logger

	mu          sync.Mutex
	unsubscribe func()
}

// NewChangeNotifier 创建变更通知器
func NewChangeNotifier(bus events.EventBus, pusher Pusher) *ChangeNotifier {
	return &ChangeNotifier{
		bus:    bus,
		pusher: pusher,
		logger: log.NewModuleLogger("notification", "notifier"),
	}
}

// Start 开始订阅，重复调用无效
func (n *ChangeNotifier) Start() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.unsubscribe != nil {
		return
	}
	n.unsubscribe = n.bus.SubscribeMultiple(events.AllTodoEvents, events.HandlerFunc(n.handle))
	n.logger.Info("Change notifier started")
}

// Stop 取消订阅
func (n *ChangeNotifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.unsubscribe == nil {
		return
	}
	n.unsubscribe()
	n.unsubscribe = nil
	n.logger.Info("Change notifier stopped")
}

// handle 推送失败不影响已提交的变更，只记录日志
func (n *ChangeNotifier) handle(event events.Event) error {
	if err := n.pusher.Push(event); err != nil {
		n.logger.Warn("Failed to push todo event",
			"type", event.Type(),
			"error", err,
		)
		return err
	}
	return nil
}
