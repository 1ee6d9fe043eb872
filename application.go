package appshell

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// liveApplication is set while an Application exists in the process.
var liveApplication atomic.Bool

// Application is the process-wide handle to the running app. It owns the
// lifecycle state and, through the delegate arena, the delegate state.
type Application struct {
	native    NativeApp
	class     *delegateClass
	key       DelegateKey
	handle    Handle
	lifecycle lifecycleState
	logger    Logger
	config    *Config
	observers *observerSet

	running     atomic.Bool
	releaseOnce sync.Once
}

// New creates the Application and binds a delegate to native. It must be
// called on the UI thread before the loop starts, and only one Application
// may be live in a process at a time.
func New(native NativeApp, opts ...Option) (*Application, error) {
	if native == nil {
		return nil, ErrNativeAppNil
	}

	b := newApplicationBuilder()
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid application config: %w", err)
	}

	if !liveApplication.CompareAndSwap(false, true) {
		return nil, ErrApplicationExists
	}

	observers := newObserverSet(b.config.EventSource, NewComponentLoggerDecorator(b.logger, "observer"))
	for _, o := range b.observers {
		observers.register(o)
	}

	class := ensureDelegateClass()
	enqueuer, dequeuer := NewQueue[MainThreadFunc]()

	dispatcher := newDispatcher(dequeuer, b.config.PanicPolicy, NewComponentLoggerDecorator(b.logger, "dispatcher"), observers)

	state := &delegateState{
		native:           native,
		enqueuer:         enqueuer,
		dispatcher:       dispatcher,
		activateOnLaunch: b.config.ActivateOnLaunch,
		logger:           NewComponentLoggerDecorator(b.logger, "delegate"),
		observers:        observers,
	}
	key := class.register(state)

	app := &Application{
		native:    native,
		class:     class,
		key:       key,
		logger:    NewComponentLoggerDecorator(b.logger, "lifecycle"),
		config:    b.config,
		observers: observers,
	}
	delegate := appDelegate{key: key, class: class, logger: state.logger}
	app.handle = NewHandle(enqueuer, delegateWaker{native: native, delegate: delegate, logger: state.logger})

	native.SetDelegate(delegate)
	app.logger.Debug("Application created", "delegate", key.String())

	return app, nil
}

// Run installs handler and enters the native event loop, blocking the UI
// thread until the loop exits. handler may be nil. When the loop returns
// the delegate is cleared and its state released.
func (a *Application) Run(handler Handler) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	state, ok := a.class.lookup(a.key)
	if !ok {
		return fmt.Errorf("%w: %w", ErrApplicationTerminated, ErrDelegateNotFound)
	}
	if err := state.installHandler(handler); err != nil {
		return err
	}

	a.logger.Info("Entering native event loop")
	a.observers.emit(context.Background(), EventTypeApplicationRunning, nil)

	a.native.Run()

	a.logger.Info("Native event loop exited")
	a.release()
	return nil
}

// Quit starts the shutdown sequence: every open window is asked to close on
// the UI thread and the native loop is asked to stop. It may be called from
// any goroutine and never blocks. Only the first call has an effect; a call
// that races with an in-progress quit, or arrives after it, logs a warning
// and returns.
func (a *Application) Quit() {
	locked, began, current := a.lifecycle.tryBeginQuit()
	if !locked {
		a.logger.Warn("Application state already locked, ignoring quit")
		return
	}
	if !began {
		a.logger.Warn("Quit ignored", "state", current.String())
		return
	}

	// Window destruction is queued rather than done here, so teardown
	// never re-enters the enumeration.
	windows := a.native.Windows()
	for _, w := range windows {
		a.native.PerformOnMainThread(w.Close)
	}

	// The loop stops after dealing with in-flight events.
	a.native.Stop()
	a.lifecycle.endQuit()

	// Observers run outside the lock.
	a.logger.Info("Quit requested", "windows", len(windows))
	a.observers.emit(context.Background(), EventTypeApplicationQuitting, map[string]any{
		"windows": len(windows),
	})
}

// State returns the current lifecycle state.
func (a *Application) State() State {
	return a.lifecycle.current()
}

// Handle returns a capability that schedules work on the UI thread. The
// returned value may be copied and used from any goroutine.
func (a *Application) Handle() Handle {
	return a.handle
}

// Close releases an Application that was never run. It is idempotent and
// a no-op once Run has returned.
func (a *Application) Close() error {
	if a.running.Load() && a.State() != StateTerminated {
		return ErrAlreadyRunning
	}
	a.release()
	return nil
}

// Config returns a copy of the application configuration.
func (a *Application) Config() Config {
	return *a.config
}

// release tears down the delegate binding exactly once.
func (a *Application) release() {
	a.releaseOnce.Do(func() {
		a.native.ClearDelegate()
		if st, ok := a.class.release(a.key); ok {
			// Nothing drains the queue any more, so later RunOnMain calls are dropped.
			st.dispatcher.queue.Close()
		} else {
			a.logger.Warn("Delegate state already released", "delegate", a.key.String())
		}
		prev := a.lifecycle.terminate()
		liveApplication.Store(false)
		a.logger.Debug("Application terminated", "previous", prev.String())
		a.observers.emit(context.Background(), EventTypeApplicationTerminated, map[string]any{
			"previous": prev.String(),
		})
	})
}

// Hide hides the application.
func (a *Application) Hide() {
	a.native.Hide()
}

// HideOthers hides every other application.
func (a *Application) HideOthers() {
	a.native.HideOtherApplications()
}

// SetMenu installs menu as the main menu.
func (a *Application) SetMenu(menu Menu) {
	a.native.SetMainMenu(menu)
}

// Locale returns the current locale identifier in Unicode form. The ISO
// keyword suffix ("@currency=EUR") the platform may append is dropped.
func (a *Application) Locale() string {
	locale := a.native.LocaleIdentifier()
	if idx := strings.IndexByte(locale, '@'); idx >= 0 {
		locale = locale[:idx]
	}
	if locale == "" {
		return a.config.LocaleFallback
	}
	return locale
}
