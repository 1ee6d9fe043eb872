package appshell

// Handler receives application-level commands on the UI thread.
// It is installed once, when Run is called, and is passed to every
// deferred callback drained while it is installed.
type Handler interface {
	// Command is called for menu and UI commands, identified by the
	// numeric tag the command was registered with.
	Command(id uint32)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(id uint32)

// Command calls f(id).
func (f HandlerFunc) Command(id uint32) {
	f(id)
}

// MainThreadFunc is a one-shot unit of work executed on the UI thread.
// h is nil when no Handler is installed; the callback decides whether
// that matters. Callbacks must not capture goroutine-local state.
type MainThreadFunc func(h Handler)
