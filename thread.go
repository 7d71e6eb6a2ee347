package lwp

import (
	"strconv"
	"sync/atomic"
)

// NoThread is the sentinel thread ID, returned where no thread applies. It is
// never assigned to a thread.
const NoThread Tid = 0

type (
	// Tid identifies a thread. IDs are assigned in increasing order, starting
	// from 1, and are never reused within a Runtime.
	Tid uint64

	// Func is the body of a thread. Returning from it is equivalent to calling
	// Exit with the returned value.
	Func func(arg any) int

	// Thread is the control block of a single thread, owned by a Runtime.
	//
	// A Thread remains accessible, e.g. via Tid2Thread, until it has been
	// reaped by Wait. Accessors may be called from any thread of the owning
	// Runtime.
	Thread struct {
		fn    Func
		arg   any
		stack *Stack
		snap  snapshot

		// gid is the goroutine the thread executes on, set as the thread
		// starts running
		gid atomic.Uint64

		tid    Tid
		status Status
		// code is the status passed to Exit, which becomes the process exit
		// code if this is the last thread
		code int

		// ready indicates membership of the active scheduler's ready set
		ready bool
		// waiting indicates the thread is parked in Wait
		waiting   bool
		bootstrap bool
	}
)

// Tid returns the ID of the thread.
func (x *Thread) Tid() Tid {
	if x == nil {
		return NoThread
	}
	return x.tid
}

// Status returns Live, or the encoded exit status if the thread has exited.
func (x *Thread) Status() Status {
	return x.status
}

// Stack returns the usable stack region of the thread, or nil for the
// bootstrap thread, or a thread that has been reaped. The thread executes on
// the stack of its goroutine, so the region is reserved memory owned by the
// thread, and not its execution stack.
func (x *Thread) Stack() []byte {
	return x.stack.Bytes()
}

// StackPointer returns the top of the region given by Stack, aligned down to
// a 16 byte boundary. It is informational only, as the thread never executes
// at this address. It is zero for the bootstrap thread.
func (x *Thread) StackPointer() uintptr {
	return x.snap.sp
}

// Waiting indicates the thread is blocked in Wait.
func (x *Thread) Waiting() bool {
	return x.waiting
}

// Bootstrap indicates the thread wraps the caller of Start.
func (x *Thread) Bootstrap() bool {
	return x.bootstrap
}

// String implements fmt.Stringer.
func (x *Thread) String() string {
	if x == nil {
		return "lwp(nil)"
	}
	return "lwp(" + strconv.FormatUint(uint64(x.tid), 10) + ")"
}
