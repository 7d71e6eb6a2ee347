package lwp

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// NewLogger returns a JSON logger writing to w, suitable for WithLogger.
// Events are written as single lines. The level may be logiface.LevelDisabled.
func NewLogger(w io.Writer, level logiface.Level) *logiface.Logger[logiface.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	).Logger()
}

// ParseLevel maps a level name, e.g. from configuration, to a logiface.Level.
// An empty name is not valid.
func ParseLevel(name string) (logiface.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return logiface.LevelTrace, nil
	case "debug":
		return logiface.LevelDebug, nil
	case "info", "informational":
		return logiface.LevelInformational, nil
	case "notice":
		return logiface.LevelNotice, nil
	case "warn", "warning":
		return logiface.LevelWarning, nil
	case "err", "error":
		return logiface.LevelError, nil
	case "crit", "critical":
		return logiface.LevelCritical, nil
	case "disabled", "off", "none":
		return logiface.LevelDisabled, nil
	default:
		return logiface.LevelDisabled, fmt.Errorf("%w: log level %q", ErrInvalidConfig, name)
	}
}

// newTraceLimiter returns nil if rates is empty, which allows everything.
func newTraceLimiter(rates map[time.Duration]int) (limiter *catrate.Limiter, err error) {
	if len(rates) == 0 {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			limiter, err = nil, fmt.Errorf("%w: %v", ErrInvalidConfig, r)
		}
	}()
	return catrate.NewLimiter(rates), nil
}

// traceSwitch logs a context switch, subject to the trace rate limit of the
// destination thread.
func (r *Runtime) traceSwitch(from, to *Thread) {
	b := r.logger.Trace()
	if !b.Enabled() {
		return
	}
	if _, ok := r.traceLimit.Allow(to.tid); !ok {
		b.Release()
		return
	}
	if from != nil {
		b = b.Uint64("from", uint64(from.tid))
	}
	b.Uint64("to", uint64(to.tid)).
		Int("ready", r.sched.Qlen()).
		Log("lwp: switch")
}
