package appshell

import (
	"context"
	"fmt"
	"runtime/debug"
)

// Waker turns "the queue needs draining" into a UI-thread notification.
type Waker interface {
	// RequestWake asks the platform to run the drain on the UI thread.
	// It never blocks and may be called from any goroutine, including
	// while the UI thread is busy; the platform queues the request.
	RequestWake()
}

// WakerFunc adapts a function to the Waker interface.
type WakerFunc func()

// RequestWake calls f().
func (f WakerFunc) RequestWake() {
	f()
}

// delegateWaker asks the native app to perform its own delegate's
// RunOnMainQueue on the UI thread. It never wakes a delegate installed by a
// later Application.
type delegateWaker struct {
	native   NativeApp
	delegate appDelegate
	logger   Logger
}

func (w delegateWaker) RequestWake() {
	if _, ok := w.delegate.class.lookup(w.delegate.key); !ok {
		w.logger.Debug("Wake dropped, delegate released", "delegate", w.delegate.key.String())
		return
	}
	w.native.PerformOnMainThread(w.delegate.RunOnMainQueue)
}

// Dispatcher drains the deferred-callback queue on the UI thread.
type Dispatcher struct {
	queue     *Dequeuer[MainThreadFunc]
	policy    PanicPolicy
	logger    Logger
	observers *observerSet
}

// NewDispatcher creates a dispatcher over the consumer half of a queue.
// It reports failures through logger only.
func NewDispatcher(queue *Dequeuer[MainThreadFunc], policy PanicPolicy, logger Logger) *Dispatcher {
	return newDispatcher(queue, policy, logger, nil)
}

// newDispatcher also emits callback.failed events to observers, which may be nil.
func newDispatcher(queue *Dequeuer[MainThreadFunc], policy PanicPolicy, logger Logger, observers *observerSet) *Dispatcher {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Dispatcher{
		queue:     queue,
		policy:    policy,
		logger:    logger,
		observers: observers,
	}
}

// OnWoken runs every callback queued at the time of the call, in FIFO
// order, passing h (which may be nil). Callbacks queued while the drain is
// in progress are left for the next wake. It returns the number of
// callbacks executed and must only be called from the UI thread.
func (d *Dispatcher) OnWoken(h Handler) int {
	callbacks := d.queue.Drain()
	for i, cb := range callbacks {
		d.invoke(i, cb, h)
	}
	if len(callbacks) > 0 {
		d.logger.Debug("Drained main-thread queue", "count", len(callbacks))
	}
	return len(callbacks)
}

func (d *Dispatcher) invoke(index int, cb MainThreadFunc, h Handler) {
	if cb == nil {
		return
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		d.logger.Error("Deferred callback panicked",
			"index", index, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		d.observers.emit(context.Background(), EventTypeCallbackFailed, map[string]any{
			"index": index,
			"panic": fmt.Sprint(r),
		})
		if d.policy == PanicPolicyPropagate {
			panic(r)
		}
	}()
	cb(h)
}
