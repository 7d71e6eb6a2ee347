package lwp

import (
	"strconv"
)

// Status models the termination state of a thread. The zero value is Live.
//
// A terminated status packs a flag above the low 8 bits, which hold the exit
// code, as passed to Exit (or returned by the thread's function), truncated to
// 8 bits.
type Status uint32

const (
	// Live indicates a thread that has not terminated.
	Live Status = 0

	termOffset        = 8
	termFlag   Status = 1 << termOffset
	codeMask   Status = termFlag - 1
)

// Terminated returns the terminated status for the given exit value.
func Terminated(code int) Status {
	return termFlag | (Status(code) & codeMask)
}

// Terminated returns true if the thread has exited.
func (x Status) Terminated() bool {
	return x&termFlag != 0
}

// Code returns the low 8 bits of the exit value, or 0 if live.
func (x Status) Code() int {
	if !x.Terminated() {
		return 0
	}
	return int(x & codeMask)
}

func (x Status) String() string {
	if !x.Terminated() {
		return "live"
	}
	return "terminated(" + strconv.Itoa(x.Code()) + ")"
}
