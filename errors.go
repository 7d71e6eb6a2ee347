package lwp

import (
	"errors"
)

// Standard errors.
var (
	// ErrInvalidArgument is returned by Create if the function is nil.
	ErrInvalidArgument = errors.New("lwp: invalid argument")

	// ErrResourceExhausted is returned by Create if the thread's stack could
	// not be allocated. The underlying cause is wrapped.
	ErrResourceExhausted = errors.New("lwp: resource exhausted")

	// ErrSchedulerExhausted is logged when Yield, Exit, or a blocking Wait
	// finds no runnable thread. It is never returned: the process exits with
	// ExitNoRunnable.
	ErrSchedulerExhausted = errors.New("lwp: no runnable thread remains")

	// ErrAlreadyStarted is returned by Start when called from within the
	// system, or after the bootstrap thread has already been established.
	ErrAlreadyStarted = errors.New("lwp: already started")

	// ErrUnknownScheduler is returned when a scheduler name is not registered.
	ErrUnknownScheduler = errors.New("lwp: unknown scheduler")

	// ErrInvalidConfig is returned for configuration that cannot be applied.
	ErrInvalidConfig = errors.New("lwp: invalid config")
)

// ExitNoRunnable is the process exit status used when no runnable thread
// remains, see ErrSchedulerExhausted.
const ExitNoRunnable = 3
