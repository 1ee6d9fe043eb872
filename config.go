package appshell

import (
	"fmt"
	"strings"
)

// PanicPolicy decides what happens when a deferred callback panics.
type PanicPolicy string

const (
	// PanicPolicyRecover logs the panic and keeps draining.
	PanicPolicyRecover PanicPolicy = "recover"

	// PanicPolicyPropagate logs the panic and re-panics, which normally
	// terminates the process.
	PanicPolicyPropagate PanicPolicy = "propagate"
)

// Config holds the tunables of an Application.
type Config struct {
	// PanicPolicy selects how failing deferred callbacks are handled.
	PanicPolicy PanicPolicy `yaml:"panic_policy" toml:"panic_policy" env:"PANIC_POLICY"`

	// LogLevel is used by NewSlogLoggerFromConfig (debug, info, warn, error).
	LogLevel string `yaml:"log_level" toml:"log_level" env:"LOG_LEVEL"`

	// LocaleFallback is returned by Locale when the platform reports none.
	LocaleFallback string `yaml:"locale_fallback" toml:"locale_fallback" env:"LOCALE_FALLBACK"`

	// ActivateOnLaunch brings the app to the foreground when launching finishes.
	ActivateOnLaunch bool `yaml:"activate_on_launch" toml:"activate_on_launch" env:"ACTIVATE_ON_LAUNCH"`

	// EventSource is the CloudEvents source attribute for emitted events.
	EventSource string `yaml:"event_source" toml:"event_source" env:"EVENT_SOURCE"`
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() *Config {
	return &Config{
		PanicPolicy:      PanicPolicyRecover,
		LogLevel:         "info",
		LocaleFallback:   "en_US",
		ActivateOnLaunch: true,
		EventSource:      "appshell",
	}
}

// Validate checks the configuration for unsupported values.
func (c *Config) Validate() error {
	switch c.PanicPolicy {
	case PanicPolicyRecover, PanicPolicyPropagate:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPanicPolicy, c.PanicPolicy)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel)
	}
	if strings.TrimSpace(c.EventSource) == "" {
		return ErrEventSourceEmpty
	}
	return nil
}

// Feeder populates a configuration structure from some source.
type Feeder interface {
	Feed(structure interface{}) error
}

// LoadConfig starts from DefaultConfig, applies feeders in order and
// validates the result. Later feeders override earlier ones.
func LoadConfig(feeders ...Feeder) (*Config, error) {
	cfg := DefaultConfig()
	for i, f := range feeders {
		if f == nil {
			continue
		}
		if err := f.Feed(cfg); err != nil {
			return nil, fmt.Errorf("config feeder %d (%T): %w", i, f, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
