package appshell

// Handle is a lightweight capability to schedule work on the UI thread.
// It carries only the producer half of the queue and a waker, so it can be
// copied and used from any goroutine without access to the Application.
type Handle struct {
	enqueuer *Enqueuer[MainThreadFunc]
	waker    Waker
}

// NewHandle builds a Handle from a producer half and a waker. Most callers
// obtain one from Application.Handle instead.
func NewHandle(enqueuer *Enqueuer[MainThreadFunc], waker Waker) Handle {
	return Handle{enqueuer: enqueuer, waker: waker}
}

// RunOnMain schedules fn to run on the UI thread. It never blocks. A wake
// is requested only when the queue was empty; otherwise fn rides on the
// wake that is already pending. Once enqueued, fn cannot be cancelled.
// Once the application has terminated fn is discarded.
func (h Handle) RunOnMain(fn MainThreadFunc) {
	if h.enqueuer == nil || fn == nil {
		return
	}
	if h.enqueuer.Enqueue(fn) && h.waker != nil {
		h.waker.RequestWake()
	}
}
