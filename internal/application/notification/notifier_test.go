package notification

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todod/backend/internal/domain/events"
	"github.com/todod/backend/internal/domain/todo"
	"github.com/todod/backend/internal/infrastructure/eventbus"
)

type fakePusher struct {
	mu     sync.Mutex
	pushed []events.EventType
	err    error
}

func (p *fakePusher) Push(event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pushed = append(p.pushed, event.Type())
	return p.err
}

func (p *fakePusher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pushed)
}

func TestChangeNotifier_PushesTodoEvents(t *testing.T) {
	bus := eventbus.NewEventBus()
	defer bus.Close()
	pusher := &fakePusher{}
	notifier := NewChangeNotifier(bus, pusher)

	notifier.Start()
	notifier.Start()

	bus.Publish(&events.TodoEvent{EventType: events.TodoCreated, Item: &todo.Todo{ID: 1}, EventTime: time.Now()})
	bus.Publish(&events.TodoEvent{EventType: events.TodoDeleted, Item: &todo.Todo{ID: 1}, EventTime: time.Now()})

	require.Eventually(t, func() bool { return pusher.count() == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []events.EventType{events.TodoCreated, events.TodoDeleted}, pusher.pushed)
}

func TestChangeNotifier_Stop(t *testing.T) {
	bus := eventbus.NewEventBus()
	pusher := &fakePusher{}
	notifier := NewChangeNotifier(bus, pusher)

	notifier.Start()
	notifier.Stop()
	notifier.Stop()

	bus.Publish(&events.TodoEvent{EventType: events.TodoReset})
	bus.Close()

	assert.Equal(t, 0, pusher.count())
}

func TestChangeNotifier_PushErrorIsReturned(t *testing.T) {
	pusher := &fakePusher{err: errors.New("offline")}
	notifier := NewChangeNotifier(eventbus.NewEventBus(), pusher)

	err := notifier.handle(&events.TodoEvent{EventType: events.TodoUpdated})
	assert.Error(t, err)
	assert.Equal(t, 1, pusher.count())
}
