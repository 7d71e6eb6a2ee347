// Package lwp implements lightweight, cooperatively scheduled threads, within
// a single process.
//
// Exactly one thread runs at a time. A thread runs until it calls Yield, Exit,
// or Wait (when Wait must block), at which point a pluggable Scheduler selects
// the next thread to run. Threads are created with Create, which allocates a
// dedicated stack, and begin running once Start wraps the calling goroutine as
// the bootstrap thread, and transfers control to the scheduler.
//
// Exited threads are reaped by Wait, in the order they exited, which releases
// their stacks. When the last thread exits, the process exits with its status.
//
// Each thread executes on its own goroutine, and control is transferred by
// handing off between goroutines, such that no two threads ever execute
// concurrently. Threads must not call runtime.Goexit directly.
//
// The package-level functions operate on a process-wide Runtime, see Default.
// Use New for an isolated Runtime, e.g. with custom options.
package lwp
