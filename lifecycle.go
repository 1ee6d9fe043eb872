package appshell

import (
	"sync"
	"sync/atomic"
)

// State is the lifecycle state of an Application.
//
//	StateRunning → StateQuitting    [Quit()]
//	StateQuitting → StateTerminated [native loop returned from Run()]
//	StateRunning → StateTerminated  [loop exited without Quit, or Close()]
//
// StateTerminated is terminal and a state never moves backwards.
type State int32

const (
	// StateRunning is entered at construction, before the loop starts.
	StateRunning State = iota
	// StateQuitting means a quit sequence has been issued.
	StateQuitting
	// StateTerminated means the loop has exited and delegate state is released.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateQuitting:
		return "quitting"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// lifecycleState guards the quitting flag. Quit only ever TryLocks it so
// that a concurrent quit becomes a no-op instead of a wait.
type lifecycleState struct {
	mu    sync.Mutex
	state atomic.Int32
}

// tryBeginQuit attempts the Running → Quitting transition. locked reports
// whether the state could be acquired at all; began reports whether the
// caller now owns the quit sequence. When began is true the lock is still
// held and the caller must call endQuit.
func (l *lifecycleState) tryBeginQuit() (locked, began bool, current State) {
	if !l.mu.TryLock() {
		return false, false, State(l.state.Load())
	}
	// terminate does not take the lock, so the transition is a CAS.
	if !l.state.CompareAndSwap(int32(StateRunning), int32(StateQuitting)) {
		l.mu.Unlock()
		return true, false, State(l.state.Load())
	}
	return true, true, StateQuitting
}

func (l *lifecycleState) endQuit() {
	l.mu.Unlock()
}

// terminate moves to StateTerminated and returns the previous state.
// It runs on the UI thread after the loop has returned and never waits on
// a quit in progress.
func (l *lifecycleState) terminate() State {
	return State(l.state.Swap(int32(StateTerminated)))
}

func (l *lifecycleState) current() State {
	return State(l.state.Load())
}
