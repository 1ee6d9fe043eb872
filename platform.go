package appshell

// ActivationPolicy controls how the application presents itself to the
// window server once launching has finished.
type ActivationPolicy int

const (
	// ActivationPolicyRegular is an ordinary app with a dock icon and menu bar.
	ActivationPolicyRegular ActivationPolicy = iota
	// ActivationPolicyAccessory has no dock icon but may own windows.
	ActivationPolicyAccessory
	// ActivationPolicyProhibited may not create windows or be activated.
	ActivationPolicyProhibited
)

func (p ActivationPolicy) String() string {
	switch p {
	case ActivationPolicyRegular:
		return "regular"
	case ActivationPolicyAccessory:
		return "accessory"
	case ActivationPolicyProhibited:
		return "prohibited"
	default:
		return "unknown"
	}
}

// Menu is an opaque, platform-built main menu.
type Menu interface{}

// NativeWindow is a window owned by the native application object.
type NativeWindow interface {
	// Close destroys the window. It must run on the UI thread and is
	// always scheduled through NativeApp.PerformOnMainThread by appshell.
	Close()
}

// Delegate is the callback surface the platform invokes on the UI thread.
// The platform holds a Delegate value but never the state behind it.
type Delegate interface {
	// ApplicationDidFinishLaunching is called once the native app has
	// launched and the upstream menu setup is done.
	ApplicationDidFinishLaunching()

	// HandleMenuItem is called when a menu item with the given tag is
	// chosen while no window handles it.
	HandleMenuItem(tag int)

	// RunOnMainQueue is the wake entry point that drains deferred callbacks.
	RunOnMainQueue()
}

// NativeApp is the opaque platform application object.
//
// Stop, Windows, Delegate and PerformOnMainThread must be safe to call from
// any goroutine. Run blocks the calling thread and must be called from the
// UI thread; the remaining methods are UI-thread calls.
type NativeApp interface {
	// Run enters the native event loop and returns once a stop request
	// has been honored.
	Run()

	// Stop requests loop exit. The loop finishes the event it is
	// processing before returning from Run.
	Stop()

	// SetDelegate installs d as the application delegate.
	SetDelegate(d Delegate)

	// ClearDelegate removes the application delegate.
	ClearDelegate()

	// Delegate returns the installed delegate, or nil.
	Delegate() Delegate

	// Windows enumerates the currently open windows.
	Windows() []NativeWindow

	// PerformOnMainThread schedules fn on the UI thread without waiting
	// for it. Calls made from the UI thread are also deferred.
	PerformOnMainThread(fn func())

	// SetMainMenu replaces the main menu.
	SetMainMenu(menu Menu)

	// Hide hides the application.
	Hide()

	// HideOtherApplications hides every other application.
	HideOtherApplications()

	// LocaleIdentifier returns the current locale identifier, possibly
	// carrying an ISO "@" keyword suffix.
	LocaleIdentifier() string

	// SetActivationPolicy sets the activation policy.
	SetActivationPolicy(policy ActivationPolicy)

	// Activate brings the application to the foreground.
	Activate(ignoringOtherApps bool)
}
