package headless

import (
	"slices"
	"sync/atomic"
)

// Window is a headless window tracked by an App.
type Window struct {
	app    *App
	title  string
	closed atomic.Bool
	closes atomic.Int32
}

// NewWindow opens a window with the given title.
func (a *App) NewWindow(title string) *Window {
	w := &Window{app: a, title: title}
	a.mu.Lock()
	a.windows = append(a.windows, w)
	a.mu.Unlock()
	return w
}

// Title returns the window title.
func (w *Window) Title() string {
	return w.title
}

// Close removes the window from its app. Closing twice is a no-op.
func (w *Window) Close() {
	w.closes.Add(1)
	if !w.closed.CompareAndSwap(false, true) {
		return
	}
	w.app.mu.Lock()
	w.app.windows = slices.DeleteFunc(w.app.windows, func(o *Window) bool { return o == w })
	w.app.mu.Unlock()
}

// Closed reports whether the window has been closed.
func (w *Window) Closed() bool {
	return w.closed.Load()
}

// CloseRequests returns how many times Close was called.
func (w *Window) CloseRequests() int {
	return int(w.closes.Load())
}
