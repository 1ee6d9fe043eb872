package appshell

import (
	"context"
	"errors"
	"sync"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrNativeAppNil)

	_, err = New(newMockNativeApp(), WithLogger(nil))
	assert.ErrorIs(t, err, ErrLoggerNil)

	_, err = New(newMockNativeApp(), WithConfig(nil))
	assert.ErrorIs(t, err, ErrConfigNil)

	_, err = New(newMockNativeApp(), WithPanicPolicy("ignore"))
	assert.ErrorIs(t, err, ErrInvalidPanicPolicy)

	assert.False(t, liveApplication.Load(), "failed construction never claims the process slot")
}

func TestNew_SingleLiveApplication(t *testing.T) {
	app, native := newTestApplication(t)
	native.AssertNumberOfCalls(t, "SetDelegate", 1)
	assert.NotNil(t, native.Delegate())
	assert.Equal(t, StateRunning, app.State())

	_, err := New(newMockNativeApp())
	assert.ErrorIs(t, err, ErrApplicationExists)

	require.NoError(t, app.Close())
	native.AssertNumberOfCalls(t, "ClearDelegate", 1)
	assert.Nil(t, native.Delegate())
	assert.Equal(t, StateTerminated, app.State())
	require.NoError(t, app.Close(), "Close is idempotent")

	second, err := New(newMockNativeApp())
	require.NoError(t, err)
	require.NoError(t, second.Close())
}

func TestNew_ConfigIsCopied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LocaleFallback = "de_DE"

	app, _ := newTestApplication(t, WithConfig(cfg))
	cfg.LocaleFallback = "fr_FR"

	assert.Equal(t, "de_DE", app.Config().LocaleFallback)
}

func TestApplication_QuitClosesWindowsAndStops(t *testing.T) {
	log := &recordingLogger{}
	app, native := newTestApplication(t, WithLogger(log))
	w1 := &mockWindow{name: "one"}
	w2 := &mockWindow{name: "two"}
	native.addWindow(w1)
	native.addWindow(w2)

	app.Quit()

	assert.Equal(t, StateQuitting, app.State())
	native.AssertNumberOfCalls(t, "Stop", 1)
	native.AssertNumberOfCalls(t, "PerformOnMainThread", 2)
	assert.Equal(t, int32(0), w1.closes.Load(), "windows are closed on the UI thread, not inside Quit")

	assert.Equal(t, 2, native.pump())
	assert.Equal(t, int32(1), w1.closes.Load())
	assert.Equal(t, int32(1), w2.closes.Load())

	app.Quit()
	native.AssertNumberOfCalls(t, "Stop", 1)
	native.AssertNumberOfCalls(t, "PerformOnMainThread", 2)
	assert.Contains(t, log.messages("warn"), "Quit ignored")
}

func TestApplication_ConcurrentQuit(t *testing.T) {
	app, native := newTestApplication(t)
	native.addWindow(&mockWindow{name: "main"})

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			app.Quit()
		}()
	}
	close(start)
	wg.Wait()

	native.AssertNumberOfCalls(t, "Stop", 1)
	native.AssertNumberOfCalls(t, "PerformOnMainThread", 1)
	assert.Equal(t, StateQuitting, app.State())
}

func TestApplication_QuitWhileStateLocked(t *testing.T) {
	log := &recordingLogger{}
	app, native := newTestApplication(t, WithLogger(log))

	app.lifecycle.mu.Lock()
	app.Quit()
	app.lifecycle.mu.Unlock()

	native.AssertNotCalled(t, "Stop")
	assert.Equal(t, StateRunning, app.State())
	assert.Contains(t, log.messages("warn"), "Application state already locked, ignoring quit")
}

func TestApplication_RunLifecycle(t *testing.T) {
	var events []string
	app, native := newTestApplication(t, WithObserverFunc("types", func(ctx context.Context, e cloudevents.Event) error {
		events = append(events, e.Type())
		return nil
	}))
	window := &mockWindow{name: "main"}
	native.addWindow(window)

	var commands []uint32
	handler := HandlerFunc(func(id uint32) { commands = append(commands, id) })

	h := app.Handle()
	native.onRun = func() {
		native.Delegate().ApplicationDidFinishLaunching()
		h.RunOnMain(func(hd Handler) { hd.Command(1) })
		h.RunOnMain(func(hd Handler) { hd.Command(2) })
		native.pump()
		app.Quit()
		native.pump()
	}

	require.NoError(t, app.Run(handler))

	assert.Equal(t, []uint32{1, 2}, commands)
	assert.Equal(t, int32(1), window.closes.Load())
	assert.Equal(t, StateTerminated, app.State())
	native.AssertNumberOfCalls(t, "ClearDelegate", 1)
	native.AssertNumberOfCalls(t, "Activate", 1)
	assert.False(t, liveApplication.Load())

	_, ok := ensureDelegateClass().lookup(app.key)
	assert.False(t, ok, "delegate state is released when the loop exits")

	assert.Equal(t, []string{
		EventTypeApplicationRunning,
		EventTypeApplicationQuitting,
		EventTypeApplicationTerminated,
	}, events)

	assert.ErrorIs(t, app.Run(handler), ErrAlreadyRunning)
	require.NoError(t, app.Close())
}

func TestApplication_RunAfterClose(t *testing.T) {
	app, _ := newTestApplication(t)
	require.NoError(t, app.Close())

	err := app.Run(nil)
	assert.True(t, errors.Is(err, ErrApplicationTerminated))
	assert.True(t, errors.Is(err, ErrDelegateNotFound))
}

func TestApplication_CloseWhileRunning(t *testing.T) {
	app, native := newTestApplication(t)

	var closeErr error
	native.onRun = func() {
		closeErr = app.Close()
	}
	require.NoError(t, app.Run(nil))
	assert.ErrorIs(t, closeErr, ErrAlreadyRunning)
}

func TestApplication_LoopExitWithoutQuit(t *testing.T) {
	var data map[string]any
	app, _ := newTestApplication(t, WithObserverFunc("terminated", func(ctx context.Context, e cloudevents.Event) error {
		if e.Type() == EventTypeApplicationTerminated {
			return e.DataAs(&data)
		}
		return nil
	}))

	require.NoError(t, app.Run(nil))
	assert.Equal(t, StateTerminated, app.State())
	assert.Equal(t, "running", data["previous"])
}

func TestApplication_HandleAfterTermination(t *testing.T) {
	app, native := newTestApplication(t)
	h := app.Handle()
	st, ok := ensureDelegateClass().lookup(app.key)
	require.True(t, ok)
	require.NoError(t, app.Close())

	assert.NotPanics(t, func() {
		for i := 0; i < 100; i++ {
			h.RunOnMain(func(Handler) { t.Error("callback must not run after termination") })
		}
	})
	native.AssertNotCalled(t, "PerformOnMainThread")
	assert.Equal(t, 0, native.pump())
	assert.Equal(t, 0, st.dispatcher.queue.Len(), "callbacks after termination are dropped")
}

func TestApplication_StaleHandleAfterReuse(t *testing.T) {
	native := newMockNativeApp()

	first, err := New(native)
	require.NoError(t, err)
	stale := first.Handle()
	require.NoError(t, first.Close())

	second, err := New(native)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })
	st, ok := ensureDelegateClass().lookup(second.key)
	require.True(t, ok)

	ran := false
	second.Handle().RunOnMain(func(Handler) { ran = true })
	native.AssertNumberOfCalls(t, "PerformOnMainThread", 1)

	stale.RunOnMain(func(Handler) { t.Error("stale handle must not reach the second application") })
	native.AssertNumberOfCalls(t, "PerformOnMainThread", 1)
	assert.Equal(t, 1, st.dispatcher.queue.Len())

	assert.Equal(t, 1, native.pump())
	assert.True(t, ran)
}

func TestApplication_PlatformPassThrough(t *testing.T) {
	app, native := newTestApplication(t)

	app.Hide()
	app.HideOthers()
	app.SetMenu("main-menu")

	native.AssertNumberOfCalls(t, "Hide", 1)
	native.AssertNumberOfCalls(t, "HideOtherApplications", 1)
	native.AssertNumberOfCalls(t, "SetMainMenu", 1)
}

func TestApplication_Locale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LocaleFallback = "en_GB"
	app, native := newTestApplication(t, WithConfig(cfg))

	tests := []struct {
		platform string
		want     string
	}{
		{"de_DE@currency=EUR", "de_DE"},
		{"ja_JP", "ja_JP"},
		{"", "en_GB"},
		{"@calendar=japanese", "en_GB"},
	}
	for _, tt := range tests {
		native.mu.Lock()
		native.locale = tt.platform
		native.mu.Unlock()
		assert.Equal(t, tt.want, app.Locale(), "platform locale %q", tt.platform)
	}
}
