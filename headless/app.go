// Package headless provides a pure-Go native application for appshell.
//
// The event loop runs on whichever goroutine calls Run, locked to its OS
// thread for the lifetime of the loop, and processes main-thread work items
// in FIFO order. It has no windowing system behind it; windows, menus and
// activation are recorded so that callers and tests can observe them.
package headless

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/GoCodeAlone/appshell"
)

// Option configures an App.
type Option func(*App)

// WithLocale sets the identifier LocaleIdentifier reports.
func WithLocale(identifier string) Option {
	return func(a *App) {
		a.locale = identifier
	}
}

// App is a headless appshell.NativeApp.
type App struct {
	mu   sync.Mutex
	cond *sync.Cond

	work          []func()
	stopRequested bool
	stopBudget    int // items still allowed to run after a stop request

	delegate atomic.Value // delegateBox

	windows      []*Window
	menu         appshell.Menu
	hidden       bool
	othersHidden bool
	policy       appshell.ActivationPolicy
	activated    bool
	locale       string

	running    atomic.Bool
	stopCalls  atomic.Int32
	performed  atomic.Int32
	launchSeen atomic.Int32
}

type delegateBox struct {
	d appshell.Delegate
}

var _ appshell.NativeApp = (*App)(nil)

// New creates a headless native application.
func New(opts ...Option) *App {
	a := &App{
		policy: appshell.ActivationPolicyProhibited,
		locale: "en_US",
	}
	a.cond = sync.NewCond(&a.mu)
	a.delegate.Store(delegateBox{})
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run enters the event loop on the calling goroutine and returns once a
// stop request has been honored. Work queued before the stop request still
// runs; work queued afterwards is kept for the next Run.
func (a *App) Run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	a.running.Store(true)
	defer a.running.Store(false)

	if d := a.Delegate(); d != nil {
		a.launchSeen.Add(1)
		d.ApplicationDidFinishLaunching()
	}

	for {
		fn, ok := a.next()
		if !ok {
			return
		}
		fn()
	}
}

func (a *App) next() (func(), bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for len(a.work) == 0 && !a.stopRequested {
		a.cond.Wait()
	}
	if a.stopRequested {
		if a.stopBudget == 0 || len(a.work) == 0 {
			a.stopRequested = false
			a.stopBudget = 0
			return nil, false
		}
		a.stopBudget--
	}

	fn := a.work[0]
	a.work[0] = nil
	a.work = a.work[1:]
	return fn, true
}

// Stop requests loop exit after the work already queued has run.
func (a *App) Stop() {
	a.stopCalls.Add(1)
	a.mu.Lock()
	if !a.stopRequested {
		a.stopRequested = true
		a.stopBudget = len(a.work)
	}
	a.mu.Unlock()
	a.cond.Broadcast()
}

// PerformOnMainThread queues fn for the loop without waiting.
func (a *App) PerformOnMainThread(fn func()) {
	if fn == nil {
		return
	}
	a.performed.Add(1)
	a.mu.Lock()
	a.work = append(a.work, fn)
	a.mu.Unlock()
	a.cond.Signal()
}

// SetDelegate installs d.
func (a *App) SetDelegate(d appshell.Delegate) {
	a.delegate.Store(delegateBox{d: d})
}

// ClearDelegate removes the delegate.
func (a *App) ClearDelegate() {
	a.delegate.Store(delegateBox{})
}

// Delegate returns the installed delegate, or nil.
func (a *App) Delegate() appshell.Delegate {
	return a.delegate.Load().(delegateBox).d
}

// Windows returns the open windows.
func (a *App) Windows() []appshell.NativeWindow {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]appshell.NativeWindow, 0, len(a.windows))
	for _, w := range a.windows {
		out = append(out, w)
	}
	return out
}

// SetMainMenu records menu as the main menu.
func (a *App) SetMainMenu(menu appshell.Menu) {
	a.mu.Lock()
	a.menu = menu
	a.mu.Unlock()
}

// Hide marks the application hidden.
func (a *App) Hide() {
	a.mu.Lock()
	a.hidden = true
	a.mu.Unlock()
}

// HideOtherApplications marks other applications hidden.
func (a *App) HideOtherApplications() {
	a.mu.Lock()
	a.othersHidden = true
	a.mu.Unlock()
}

// LocaleIdentifier returns the configured locale identifier.
func (a *App) LocaleIdentifier() string {
	return a.locale
}

// SetActivationPolicy records the activation policy.
func (a *App) SetActivationPolicy(policy appshell.ActivationPolicy) {
	a.mu.Lock()
	a.policy = policy
	a.mu.Unlock()
}

// Activate marks the application active.
func (a *App) Activate(ignoringOtherApps bool) {
	a.mu.Lock()
	a.activated = true
	a.mu.Unlock()
}

// InvokeMenuItem simulates choosing the menu item tagged tag. The delegate
// is called on the loop.
func (a *App) InvokeMenuItem(tag int) {
	a.PerformOnMainThread(func() {
		if d := a.Delegate(); d != nil {
			d.HandleMenuItem(tag)
		}
	})
}

// Running reports whether Run is executing.
func (a *App) Running() bool {
	return a.running.Load()
}

// StopRequests returns how many times Stop was called.
func (a *App) StopRequests() int {
	return int(a.stopCalls.Load())
}

// Performed returns how many work items were queued with PerformOnMainThread.
func (a *App) Performed() int {
	return int(a.performed.Load())
}

// Pending returns the number of queued work items.
func (a *App) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.work)
}

// Launches returns how many times the launch notification was delivered.
func (a *App) Launches() int {
	return int(a.launchSeen.Load())
}

// Menu returns the current main menu.
func (a *App) Menu() appshell.Menu {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.menu
}

// Hidden reports whether Hide was called.
func (a *App) Hidden() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hidden
}

// OthersHidden reports whether HideOtherApplications was called.
func (a *App) OthersHidden() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.othersHidden
}

// ActivationPolicy returns the last policy set.
func (a *App) ActivationPolicy() appshell.ActivationPolicy {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.policy
}

// Activated reports whether Activate was called.
func (a *App) Activated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activated
}
