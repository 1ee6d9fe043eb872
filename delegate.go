package appshell

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DelegateKey identifies a delegate state block in the process-wide arena.
// The platform only ever sees the key, wrapped in a Delegate value.
type DelegateKey uuid.UUID

func (k DelegateKey) String() string {
	return uuid.UUID(k).String()
}

func newDelegateKey() DelegateKey {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return DelegateKey(id)
}

// delegateClass is the process-wide delegate registration: an arena of
// delegate state blocks keyed by DelegateKey.
type delegateClass struct {
	mu     sync.RWMutex
	states map[DelegateKey]*delegateState
}

var (
	delegateClassOnce   sync.Once
	sharedDelegateClass *delegateClass
)

// ensureDelegateClass initializes the process-wide delegate class once and
// returns it. Safe to call any number of times.
func ensureDelegateClass() *delegateClass {
	delegateClassOnce.Do(func() {
		sharedDelegateClass = &delegateClass{
			states: make(map[DelegateKey]*delegateState),
		}
	})
	return sharedDelegateClass
}

func (c *delegateClass) register(st *delegateState) DelegateKey {
	key := newDelegateKey()
	c.mu.Lock()
	c.states[key] = st
	c.mu.Unlock()
	return key
}

func (c *delegateClass) lookup(key DelegateKey) (*delegateState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.states[key]
	return st, ok
}

func (c *delegateClass) release(key DelegateKey) (*delegateState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.states[key]
	if ok {
		delete(c.states, key)
	}
	return st, ok
}

func (c *delegateClass) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.states)
}

// delegateState is the coordinator-owned block reachable from platform
// callbacks. Apart from the enqueuer, it is only touched on the UI thread.
type delegateState struct {
	native           NativeApp
	handler          Handler
	handlerInstalled bool
	enqueuer         *Enqueuer[MainThreadFunc]
	dispatcher       *Dispatcher
	activateOnLaunch bool
	logger           Logger
	observers        *observerSet
}

func (s *delegateState) installHandler(h Handler) error {
	if s.handlerInstalled {
		return ErrHandlerAlreadyInstalled
	}
	s.handler = h
	s.handlerInstalled = true
	return nil
}

func (s *delegateState) command(id uint32) {
	if s.handler == nil {
		s.logger.Debug("Menu command ignored, no handler installed", "command", id)
		return
	}
	s.observers.emit(context.Background(), EventTypeMenuCommand, map[string]any{"command": id})
	s.handler.Command(id)
}

// appDelegate is the Delegate handed to the platform. It holds only the
// key and performs a checked arena lookup on every callback.
type appDelegate struct {
	key    DelegateKey
	class  *delegateClass
	logger Logger
}

func (d appDelegate) state(callback string) (*delegateState, bool) {
	st, ok := d.class.lookup(d.key)
	if !ok {
		d.logger.Warn("Delegate callback for released state", "callback", callback, "key", d.key.String())
	}
	return st, ok
}

// ApplicationDidFinishLaunching sets the regular activation policy and
// activates the app. It is delivered after the upstream menu setup, since
// a menu installed later would not be interactable.
func (d appDelegate) ApplicationDidFinishLaunching() {
	st, ok := d.state("applicationDidFinishLaunching")
	if !ok {
		return
	}
	st.native.SetActivationPolicy(ActivationPolicyRegular)
	if st.activateOnLaunch {
		st.native.Activate(true)
	}
	st.logger.Debug("Application finished launching")
}

// HandleMenuItem handles menu items in the case that all windows are closed.
func (d appDelegate) HandleMenuItem(tag int) {
	st, ok := d.state("handleMenuItem")
	if !ok {
		return
	}
	st.command(uint32(tag))
}

// RunOnMainQueue drains the deferred-callback queue.
func (d appDelegate) RunOnMainQueue() {
	st, ok := d.state("runOnMainQueue")
	if !ok {
		return
	}
	st.dispatcher.OnWoken(st.handler)
}
