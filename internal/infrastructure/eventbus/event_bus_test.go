package eventbus

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todod/backend/internal/domain/events"
	"github.com/todod/backend/internal/domain/todo"
)

func newEvent(eventType events.EventType) *events.TodoEvent {
	return &events.TodoEvent{
		EventType: eventType,
		Item:      &todo.Todo{ID: 1, Description: "buy milk"},
		LastID:    1,
		EventTime: time.Now(),
	}
}

func TestEventBus_Subscribe(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	received := make(chan events.Event, 1)
	unsub := bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		received <- event
		return nil
	}))
	defer unsub()

	bus.Publish(newEvent(events.TodoCreated))

	select {
	case event := <-received:
		todoEvent, ok := event.(*events.TodoEvent)
		require.True(t, ok)
		assert.Equal(t, uint64(1), todoEvent.Item.ID)
	case <-time.After(time.Second):
		t.Fatal("handler should have received the event")
	}
}

func TestEventBus_MultipleHandlers(t *testing.T) {
	bus := NewEventBus()

	var count atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe(events.TodoUpdated, events.HandlerFunc(func(event events.Event) error {
			count.Add(1)
			return nil
		}))
	}

	bus.Publish(newEvent(events.TodoUpdated))
	bus.Close()

	assert.Equal(t, int32(3), count.Load(), "all 3 handlers should have received the event")
}

func TestEventBus_SubscribeMultiple(t *testing.T) {
	bus := NewEventBus()

	var count atomic.Int32
	unsub := bus.SubscribeMultiple(
		[]events.EventType{events.TodoCreated, events.TodoDeleted},
		events.HandlerFunc(func(event events.Event) error {
			count.Add(1)
			return nil
		}),
	)
	defer unsub()

	bus.Publish(newEvent(events.TodoCreated))
	bus.Publish(newEvent(events.TodoDeleted))
	bus.Publish(newEvent(events.TodoUpdated))
	bus.Close()

	assert.Equal(t, int32(2), count.Load(), "handler should have received only subscribed events")
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()

	var first, second atomic.Int32
	unsub := bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		first.Add(1)
		return nil
	}))
	bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		second.Add(1)
		return nil
	}))

	unsub()
	unsub()
	bus.Publish(newEvent(events.TodoCreated))
	bus.Close()

	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, int32(1), second.Load())
}

func TestEventBus_ErrorIsolation(t *testing.T) {
	bus := NewEventBus()

	var successCount atomic.Int32
	bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		return errors.New("handler error")
	}))
	bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		successCount.Add(1)
		return nil
	}))

	bus.Publish(newEvent(events.TodoCreated))
	bus.Close()

	assert.Equal(t, int32(1), successCount.Load(), "second handler should still receive the event")
}

func TestEventBus_PanicRecovery(t *testing.T) {
	bus := NewEventBus()

	var successCount atomic.Int32
	bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		panic("handler panic")
	}))
	bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		successCount.Add(1)
		return nil
	}))

	require.NotPanics(t, func() {
		bus.Publish(newEvent(events.TodoCreated))
	})
	bus.Close()

	assert.Equal(t, int32(1), successCount.Load(), "second handler should still receive the event")
}

func TestEventBus_PublishAfterClose(t *testing.T) {
	bus := NewEventBus()

	var count atomic.Int32
	bus.Subscribe(events.TodoReset, events.HandlerFunc(func(event events.Event) error {
		count.Add(1)
		return nil
	}))
	bus.Close()

	require.NotPanics(t, func() {
		bus.Publish(newEvent(events.TodoReset))
	})
	assert.Equal(t, int32(0), count.Load())
}

func TestEventBus_CloseWaitsForHandlers(t *testing.T) {
	bus := NewEventBus()

	handlerStarted := make(chan struct{})
	var done atomic.Bool

	bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		close(handlerStarted)
		time.Sleep(200 * time.Millisecond)
		done.Store(true)
		return nil
	}))

	bus.Publish(newEvent(events.TodoCreated))
	<-handlerStarted

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		bus.Close()
	}()
	wg.Wait()

	assert.True(t, done.Load(), "Close should wait for running handlers")
}

func TestEventBus_PreservesPublishOrder(t *testing.T) {
	bus := NewEventBus()

	const n = 500
	var got []uint64
	bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		got = append(got, event.(*events.TodoEvent).LastID)
		return nil
	}))

	for i := uint64(1); i <= n; i++ {
		bus.Publish(&events.TodoEvent{EventType: events.TodoCreated, LastID: i})
	}
	bus.Close()

	require.Len(t, got, n)
	for i, id := range got {
		assert.Equal(t, uint64(i+1), id)
	}
}

func TestEventBus_PreservesOrderAcrossTypes(t *testing.T) {
	bus := NewEventBus()

	var got []events.EventType
	bus.SubscribeMultiple(events.AllTodoEvents, events.HandlerFunc(func(event events.Event) error {
		got = append(got, event.Type())
		return nil
	}))

	want := []events.EventType{
		events.TodoCreated,
		events.TodoUpdated,
		events.TodoUpdated,
		events.TodoDeleted,
		events.TodoCleared,
		events.TodoReset,
	}
	for _, eventType := range want {
		bus.Publish(newEvent(eventType))
	}
	bus.Close()

	assert.Equal(t, want, got)
}

func TestEventBus_SlowHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	release := make(chan struct{})
	bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		<-release
		return nil
	}))

	received := make(chan struct{}, 1)
	bus.Subscribe(events.TodoCreated, events.HandlerFunc(func(event events.Event) error {
		received <- struct{}{}
		return nil
	}))

	bus.Publish(newEvent(events.TodoCreated))

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("fast handler should not wait for the slow one")
	}
	close(release)
}
