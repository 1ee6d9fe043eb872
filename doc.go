// Package appshell is the application shell of a desktop UI toolkit: it owns
// the native application object, binds a delegate to it and runs the native
// event loop on the UI thread.
//
// Work produced on other goroutines reaches the UI thread through a Handle:
//
//	app, err := appshell.New(native, appshell.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	h := app.Handle()
//	go func() {
//		result := compute()
//		h.RunOnMain(func(hd appshell.Handler) {
//			show(result)
//		})
//	}()
//	return app.Run(handler)
//
// Callbacks run in the order they were enqueued, always on the UI thread,
// and a burst of enqueues costs a single platform wake. Quit may be called
// from any goroutine; it closes every window and stops the loop, after
// which Run returns and the delegate state is released.
package appshell
