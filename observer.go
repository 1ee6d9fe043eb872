package appshell

import (
	"context"
	"fmt"
	"sync"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Observer is notified of application events.
type Observer interface {
	// OnEvent is called synchronously on the goroutine that produced the
	// event, which is the UI thread for everything except quitting.
	// Observers should return quickly.
	OnEvent(ctx context.Context, event cloudevents.Event) error

	// ObserverID returns a unique identifier for this observer.
	ObserverID() string
}

// ObserverFunc is a functional observer.
type ObserverFunc func(ctx context.Context, event cloudevents.Event) error

// FunctionalObserver provides a simple way to create observers using functions.
type FunctionalObserver struct {
	id      string
	handler ObserverFunc
}

// NewFunctionalObserver creates a new observer that uses the provided function
// to handle events.
func NewFunctionalObserver(id string, handler ObserverFunc) Observer {
	return &FunctionalObserver{id: id, handler: handler}
}

// OnEvent implements the Observer interface by calling the handler function.
func (f *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return f.handler(ctx, event)
}

// ObserverID implements the Observer interface by returning the observer ID.
func (f *FunctionalObserver) ObserverID() string {
	return f.id
}

// EventType constants for events emitted by appshell.
const (
	EventTypeApplicationRunning    = "com.appshell.application.running"
	EventTypeApplicationQuitting   = "com.appshell.application.quitting"
	EventTypeApplicationTerminated = "com.appshell.application.terminated"
	EventTypeCallbackFailed        = "com.appshell.callback.failed"
	EventTypeMenuCommand           = "com.appshell.menu.command"
)

// observerSet holds registered observers in registration order.
type observerSet struct {
	mu        sync.RWMutex
	observers []Observer
	logger    Logger
	source    string
}

func newObserverSet(source string, logger Logger) *observerSet {
	return &observerSet{source: source, logger: logger}
}

func (s *observerSet) register(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// emit builds a CloudEvent and delivers it to every observer in order.
// Observer errors and panics are logged and never reach the caller. A nil
// set emits nothing.
func (s *observerSet) emit(ctx context.Context, eventType string, data map[string]any) {
	if s == nil {
		return
	}
	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	if len(observers) == 0 {
		return
	}

	event := NewCloudEvent(eventType, s.source, data, nil)
	if err := ValidateCloudEvent(event); err != nil {
		s.logger.Error("Invalid CloudEvent", "eventType", eventType, "error", err)
		return
	}

	for _, o := range observers {
		s.notify(ctx, o, event)
	}
}

func (s *observerSet) notify(ctx context.Context, o Observer, event cloudevents.Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Observer panicked", "observerID", o.ObserverID(), "event", event.Type(), "panic", fmt.Sprint(r))
		}
	}()
	if err := o.OnEvent(ctx, event); err != nil {
		s.logger.Error("Observer error", "observerID", o.ObserverID(), "event", event.Type(), "error", err)
	}
}
