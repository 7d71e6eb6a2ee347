package lwp

import (
	"sync"
)

var defaultRuntime struct {
	once    sync.Once
	runtime *Runtime
}

// Default returns the process-wide Runtime used by the package-level
// functions, which is created on first use, with no options.
func Default() *Runtime {
	defaultRuntime.once.Do(func() {
		r, err := New()
		if err != nil {
			panic(err)
		}
		defaultRuntime.runtime = r
	})
	return defaultRuntime.runtime
}

// Create calls Runtime.Create on Default.
func Create(fn Func, arg any) (Tid, error) { return Default().Create(fn, arg) }

// Start calls Runtime.Start on Default.
func Start() error { return Default().Start() }

// Yield calls Runtime.Yield on Default.
func Yield() { Default().Yield() }

// Exit calls Runtime.Exit on Default.
func Exit(status int) { Default().Exit(status) }

// Wait calls Runtime.Wait on Default.
func Wait() (Tid, Status) { return Default().Wait() }

// GetTid calls Runtime.GetTid on Default.
func GetTid() Tid { return Default().GetTid() }

// Tid2Thread calls Runtime.Tid2Thread on Default.
func Tid2Thread(tid Tid) *Thread { return Default().Tid2Thread(tid) }

// SetScheduler calls Runtime.SetScheduler on Default.
func SetScheduler(s Scheduler) { Default().SetScheduler(s) }

// GetScheduler calls Runtime.GetScheduler on Default.
func GetScheduler() Scheduler { return Default().GetScheduler() }
