package appshell

import (
	"errors"
)

// Application errors
var (
	// Construction errors
	ErrNativeAppNil      = errors.New("native application is nil")
	ErrApplicationExists = errors.New("an application is already live in this process")
	ErrLoggerNil         = errors.New("logger is nil")
	ErrConfigNil         = errors.New("config is nil")

	// Run errors
	ErrAlreadyRunning          = errors.New("application is already running")
	ErrApplicationTerminated   = errors.New("application has terminated")
	ErrHandlerAlreadyInstalled = errors.New("event handler already installed")

	// Delegate errors
	ErrDelegateNotFound = errors.New("delegate state not found")

	// Config validation errors
	ErrInvalidPanicPolicy = errors.New("invalid panic policy")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrEventSourceEmpty   = errors.New("event source is empty")
)
