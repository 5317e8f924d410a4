package events

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// InMemoryEventDispatcher fans published events out to subscribed handlers
// from a single worker goroutine. Handlers run synchronously in publish
// order; a slow handler delays the queue, not the publisher.
type InMemoryEventDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler

	running atomic.Bool
	queue   chan DomainEvent
	done    chan struct{}
}

func NewInMemoryEventDispatcher(bufferSize int) *InMemoryEventDispatcher {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &InMemoryEventDispatcher{
		handlers: make(map[string][]EventHandler),
		queue:    make(chan DomainEvent, bufferSize),
		done:     make(chan struct{}),
	}
}

// Subscribe registers a handler for one event type. Multiple handlers per
// type are allowed and run in registration order.
func (d *InMemoryEventDispatcher) Subscribe(eventType string, handler EventHandler) error {
	if eventType == "" {
		return fmt.Errorf("event type is required")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}

	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], handler)
	d.mu.Unlock()
	return nil
}

// Unsubscribe removes a previously registered handler.
func (d *InMemoryEventDispatcher) Unsubscribe(eventType string, handler EventHandler) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	kept := d.handlers[eventType][:0]
	for _, h := range d.handlers[eventType] {
		if h != handler {
			kept = append(kept, h)
		}
	}
	if len(kept) == 0 {
		delete(d.handlers, eventType)
		return nil
	}
	d.handlers[eventType] = kept
	return nil
}

// Publish enqueues one event. It never blocks: a full queue is an error
// the caller may log and ignore, since domain events here are advisory.
func (d *InMemoryEventDispatcher) Publish(event DomainEvent) error {
	// The read lock keeps the send exclusive with Stop closing the queue.
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.running.Load() {
		return fmt.Errorf("event dispatcher is not running")
	}
	select {
	case d.queue <- event:
		return nil
	default:
		return fmt.Errorf("event queue is full, dropping %s", event.GetEventType())
	}
}

// PublishAll enqueues events in order, stopping at the first failure.
func (d *InMemoryEventDispatcher) PublishAll(events []DomainEvent) error {
	for _, event := range events {
		if err := d.Publish(event); err != nil {
			return err
		}
	}
	return nil
}

// Start launches the worker goroutine. Calling Start twice is an error.
func (d *InMemoryEventDispatcher) Start() error {
	if !d.running.CompareAndSwap(false, true) {
		return fmt.Errorf("event dispatcher already running")
	}
	go d.run()
	return nil
}

// Stop rejects further publishes, drains the queue and waits for the
// worker to exit.
func (d *InMemoryEventDispatcher) Stop() error {
	d.mu.Lock()
	if !d.running.CompareAndSwap(true, false) {
		d.mu.Unlock()
		return fmt.Errorf("event dispatcher is not running")
	}
	close(d.queue)
	d.mu.Unlock()

	<-d.done
	return nil
}

func (d *InMemoryEventDispatcher) run() {
	defer close(d.done)
	for event := range d.queue {
		d.dispatch(event)
	}
}

func (d *InMemoryEventDispatcher) dispatch(event DomainEvent) {
	d.mu.RLock()
	handlers := make([]EventHandler, len(d.handlers[event.GetEventType()]))
	copy(handlers, d.handlers[event.GetEventType()])
	d.mu.RUnlock()

	for _, h := range handlers {
		if !h.CanHandle(event.GetEventType()) {
			continue
		}
		if err := h.Handle(event); err != nil {
			slog.Error("domain event handler failed",
				"event_type", event.GetEventType(),
				"aggregate_id", event.GetAggregateID(),
				"error", err)
		}
	}
}

// SimpleEventHandler adapts a plain function to EventHandler for one
// event type.
type SimpleEventHandler struct {
	eventType string
	fn        func(DomainEvent) error
}

func NewSimpleEventHandler(eventType string, fn func(DomainEvent) error) *SimpleEventHandler {
	return &SimpleEventHandler{eventType: eventType, fn: fn}
}

func (h *SimpleEventHandler) Handle(event DomainEvent) error {
	if h.fn == nil {
		return nil
	}
	return h.fn(event)
}

func (h *SimpleEventHandler) CanHandle(eventType string) bool {
	return h.eventType == eventType
}
