package lwp

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Scheduler decides which ready thread runs next. Implementations are called
// only by the Runtime, from whichever thread is running, so they need not be
// safe for concurrent use.
//
// The running thread remains a member of the ready set, unless it is blocked
// or exited. Admit of a thread that is already a member, or Remove of one that
// is not, must be ignored.
type Scheduler interface {
	// Init is called once, before the scheduler is installed.
	Init()

	// Shutdown is called after the scheduler has been replaced, and all its
	// threads moved to its replacement.
	Shutdown()

	// Admit adds a thread to the ready set.
	Admit(thread *Thread)

	// Remove withdraws a thread from the ready set.
	Remove(thread *Thread)

	// Next selects the thread to run, which remains a member of the ready
	// set, or returns nil if the ready set is empty.
	Next() *Thread

	// Qlen returns the size of the ready set.
	Qlen() int
}

var schedulers = struct {
	mu        sync.RWMutex
	factories map[string]func() Scheduler
}{
	factories: map[string]func() Scheduler{
		"roundrobin": func() Scheduler { return NewRoundRobin() },
		"rr":         func() Scheduler { return NewRoundRobin() },
	},
}

// RegisterScheduler makes a scheduler implementation available by name, e.g.
// for use in Config. Names are case-insensitive. It panics if name is empty,
// or if factory is nil. Registering an existing name replaces it.
func RegisterScheduler(name string, factory func() Scheduler) {
	name = normalizeSchedulerName(name)
	if name == `` {
		panic(`lwp: register scheduler: empty name`)
	}
	if factory == nil {
		panic(`lwp: register scheduler: nil factory`)
	}
	schedulers.mu.Lock()
	defer schedulers.mu.Unlock()
	schedulers.factories[name] = factory
}

// LookupScheduler constructs a new instance of the named scheduler. The
// error will wrap ErrUnknownScheduler, if the name is not registered.
func LookupScheduler(name string) (Scheduler, error) {
	schedulers.mu.RLock()
	factory := schedulers.factories[normalizeSchedulerName(name)]
	schedulers.mu.RUnlock()
	if factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheduler, name)
	}
	s := factory()
	if s == nil {
		return nil, fmt.Errorf("%w: %q: factory returned nil", ErrUnknownScheduler, name)
	}
	return s, nil
}

// SchedulerNames returns the registered scheduler names, sorted.
func SchedulerNames() []string {
	schedulers.mu.RLock()
	defer schedulers.mu.RUnlock()
	names := make([]string, 0, len(schedulers.factories))
	for name := range schedulers.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeSchedulerName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
