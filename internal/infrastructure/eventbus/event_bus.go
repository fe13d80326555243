// Package eventbus 提供进程内的异步事件分发
package eventbus

import (
	"log/slog"
	"sync"

	"github.com/todod/backend/internal/domain/events"
	"github.com/todod/backend/internal/infrastructure/log"
)

// subscriber 单个订阅者
// 每个订阅者有自己的 FIFO 队列和一个工作协程，事件按发布顺序送达
type subscriber struct {
	id      uint64
	types   map[events.EventType]struct{}
	handler events.Handler

	mu      sync.Mutex
	cond    *sync.Cond
	pending []events.Event
	closed  bool
}

func newSubscriber(id uint64, eventTypes []events.EventType, handler events.Handler) *subscriber {
	s := &subscriber{
		id:      id,
		types:   make(map[events.EventType]struct{}, len(eventTypes)),
		handler: handler,
	}
	for _, eventType := range eventTypes {
		s.types[eventType] = struct{}{}
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// wants 是否订阅了该事件类型
func (s *subscriber) wants(eventType events.EventType) bool {
	_, ok := s.types[eventType]
	return ok
}

// enqueue 入队，已关闭时丢弃
func (s *subscriber) enqueue(event events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.pending = append(s.pending, event)
	s.cond.Signal()
}

// next 阻塞直到有事件；队列已关闭且为空时返回 false
func (s *subscriber) next() (events.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.pending) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.pending) == 0 {
		return nil, false
	}
	event := s.pending[0]
	s.pending[0] = nil
	s.pending = s.pending[1:]
	return event, true
}

// close 停止接收新事件，已入队的事件仍会处理完
func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
}

// eventBusImpl EventBus 的实现
type eventBusImpl struct {
	subscribers map[uint64]*subscriber
	// nextID 下一个订阅 ID，用于取消订阅时识别
	nextID uint64
	mu     sync.RWMutex
	logger *slog.Logger
	closed bool
	// wg 等待所有工作协程退出
	wg sync.WaitGroup
}

// NewEventBus 创建新的事件总线实例
func NewEventBus() events.EventBus {
	return &eventBusImpl{
		subscribers: make(map[uint64]*subscriber),
		logger:      log.NewModuleLogger("eventbus", "bus"),
	}
}

// Subscribe 订阅特定类型的事件
func (b *eventBusImpl) Subscribe(eventType events.EventType, handler events.Handler) func() {
	return b.SubscribeMultiple([]events.EventType{eventType}, handler)
}

// SubscribeMultiple 订阅多个类型的事件
// 同一订阅内不同类型的事件也保持发布顺序
func (b *eventBusImpl) SubscribeMultiple(eventTypes []events.EventType, handler events.Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return func() {}
	}

	b.nextID++
	sub := newSubscriber(b.nextID, eventTypes, handler)
	b.subscribers[sub.id] = sub

	b.wg.Add(1)
	go b.run(sub)

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(sub.id) })
	}
}

// unsubscribe 取消订阅
func (b *eventBusImpl) unsubscribe(id uint64) {
	b.mu.Lock()
	sub, ok := b.subscribers[id]
	delete(b.subscribers, id)
	b.mu.Unlock()

	if ok {
		sub.close()
	}
}

// Publish 异步发布事件，按调用顺序入队到每个匹配的订阅者
func (b *eventBusImpl) Publish(event events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	delivered := 0
	for _, sub := range b.subscribers {
		if sub.wants(event.Type()) {
			sub.enqueue(event)
			delivered++
		}
	}

	if delivered > 0 {
		b.logger.Debug("Publishing event",
			"type", event.Type(),
			"handlers_count", delivered,
		)
	}
}

// run 订阅者的工作协程
func (b *eventBusImpl) run(sub *subscriber) {
	defer b.wg.Done()
	for {
		event, ok := sub.next()
		if !ok {
			return
		}
		b.dispatchToHandler(event, sub.handler)
	}
}

// dispatchToHandler 分发事件到单个处理器
func (b *eventBusImpl) dispatchToHandler(event events.Event, handler events.Handler) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Handler panicked",
				"type", event.Type(),
				"panic", r,
			)
		}
	}()

	if err := handler.HandleEvent(event); err != nil {
		b.logger.Error("Handler returned error",
			"type", event.Type(),
			"error", err,
		)
	}
}

// Close 关闭事件总线，等待已发布事件处理完成
func (b *eventBusImpl) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*subscriber, 0, len(b.subscribers))
	for id, sub := range b.subscribers {
		subs = append(subs, sub)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
	b.wg.Wait()

	b.logger.Info("Event bus closed")
}
