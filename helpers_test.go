package appshell

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/mock"
)

type logger struct {
	t *testing.T
}

func (l *logger) Info(msg string, args ...any)  { l.t.Log(msg, args) }
func (l *logger) Error(msg string, args ...any) { l.t.Log("ERROR", msg, args) }
func (l *logger) Warn(msg string, args ...any)  { l.t.Log("WARN", msg, args) }
func (l *logger) Debug(msg string, args ...any) { l.t.Log("DEBUG", msg, args) }

type logEntry struct {
	level string
	msg   string
	args  []any
}

// recordingLogger keeps every record for later assertions.
type recordingLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recordingLogger) add(level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Info(msg string, args ...any)  { l.add("info", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.add("error", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.add("warn", msg, args) }
func (l *recordingLogger) Debug(msg string, args ...any) { l.add("debug", msg, args) }

func (l *recordingLogger) messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, e := range l.entries {
		if e.level == level {
			out = append(out, e.msg)
		}
	}
	return out
}

// MockNativeApp records calls through testify's mock and keeps enough real
// state (delegate, windows, pending work) for the coordinator to operate.
type MockNativeApp struct {
	mock.Mock

	mu       sync.Mutex
	delegate Delegate
	windows  []NativeWindow
	pending  []func()
	locale   string
	onRun    func()
}

func newMockNativeApp() *MockNativeApp {
	m := &MockNativeApp{}
	for _, method := range []string{
		"Run", "Stop", "SetDelegate", "ClearDelegate", "Windows", "PerformOnMainThread",
		"SetMainMenu", "Hide", "HideOtherApplications", "SetActivationPolicy", "Activate",
	} {
		m.On(method).Maybe()
	}
	return m
}

func (m *MockNativeApp) Run() {
	m.Called()
	if m.onRun != nil {
		m.onRun()
	}
}

func (m *MockNativeApp) Stop() {
	m.Called()
}

func (m *MockNativeApp) SetDelegate(d Delegate) {
	m.Called()
	m.mu.Lock()
	m.delegate = d
	m.mu.Unlock()
}

func (m *MockNativeApp) ClearDelegate() {
	m.Called()
	m.mu.Lock()
	m.delegate = nil
	m.mu.Unlock()
}

func (m *MockNativeApp) Delegate() Delegate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delegate
}

func (m *MockNativeApp) Windows() []NativeWindow {
	m.Called()
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]NativeWindow(nil), m.windows...)
}

func (m *MockNativeApp) PerformOnMainThread(fn func()) {
	m.Called()
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
}

func (m *MockNativeApp) SetMainMenu(menu Menu)  { m.Called() }
func (m *MockNativeApp) Hide()                  { m.Called() }
func (m *MockNativeApp) HideOtherApplications() { m.Called() }

func (m *MockNativeApp) LocaleIdentifier() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locale
}

func (m *MockNativeApp) SetActivationPolicy(policy ActivationPolicy) { m.Called() }
func (m *MockNativeApp) Activate(ignoringOtherApps bool)              { m.Called() }

// pump runs pending main-thread work, including work queued while pumping,
// and returns how many items ran.
func (m *MockNativeApp) pump() int {
	n := 0
	for {
		m.mu.Lock()
		work := m.pending
		m.pending = nil
		m.mu.Unlock()
		if len(work) == 0 {
			return n
		}
		for _, fn := range work {
			fn()
			n++
		}
	}
}

func (m *MockNativeApp) pendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

func (m *MockNativeApp) addWindow(w NativeWindow) {
	m.mu.Lock()
	m.windows = append(m.windows, w)
	m.mu.Unlock()
}

type mockWindow struct {
	name   string
	closes atomic.Int32
}

func (w *mockWindow) Close() {
	w.closes.Add(1)
}

func (w *mockWindow) String() string {
	return fmt.Sprintf("window(%s)", w.name)
}

// newTestApplication builds an Application over a mock native app and
// releases it when the test ends.
func newTestApplication(t *testing.T, opts ...Option) (*Application, *MockNativeApp) {
	t.Helper()
	native := newMockNativeApp()
	app, err := New(native, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		_ = app.Close()
	})
	return app, native
}
