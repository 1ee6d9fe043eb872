package appshell

// Option represents a functional option for configuring applications
type Option func(*ApplicationBuilder) error

// ApplicationBuilder collects the settings New applies before it binds the
// delegate to the native application.
type ApplicationBuilder struct {
	logger    Logger
	config    *Config
	observers []Observer
}

func newApplicationBuilder() *ApplicationBuilder {
	return &ApplicationBuilder{
		logger:    nopLogger{},
		config:    DefaultConfig(),
		observers: make([]Observer, 0),
	}
}

// WithLogger sets the logger for the application
func WithLogger(logger Logger) Option {
	return func(b *ApplicationBuilder) error {
		if logger == nil {
			return ErrLoggerNil
		}
		b.logger = logger
		return nil
	}
}

// WithConfig sets the application configuration. The configuration is
// validated when New runs.
func WithConfig(cfg *Config) Option {
	return func(b *ApplicationBuilder) error {
		if cfg == nil {
			return ErrConfigNil
		}
		c := *cfg
		b.config = &c
		return nil
	}
}

// WithPanicPolicy overrides the configured panic policy.
func WithPanicPolicy(policy PanicPolicy) Option {
	return func(b *ApplicationBuilder) error {
		b.config.PanicPolicy = policy
		return nil
	}
}

// WithObserver registers observers for application events.
func WithObserver(observers ...Observer) Option {
	return func(b *ApplicationBuilder) error {
		for _, o := range observers {
			if o != nil {
				b.observers = append(b.observers, o)
			}
		}
		return nil
	}
}

// WithObserverFunc registers a functional observer under id.
func WithObserverFunc(id string, fn ObserverFunc) Option {
	return func(b *ApplicationBuilder) error {
		if fn == nil {
			return nil
		}
		b.observers = append(b.observers, NewFunctionalObserver(id, fn))
		return nil
	}
}
