package lwp

import (
	"unsafe"
)

// snapshot is the saved execution state of a thread that is not running.
//
// The machine state of a thread lives on its goroutine, which is parked on
// resume while the thread is not running. A cold snapshot has never run: its
// goroutine is launched, running entry, the first time it is restored.
type snapshot struct {
	resume chan struct{}
	entry  func()
	// sp is the top of the thread's stack region, aligned down to stackAlign.
	// It is informational only, the goroutine runs on its own stack.
	sp uintptr
}

func newColdSnapshot(entry func(), mem []byte) snapshot {
	s := snapshot{
		resume: make(chan struct{}, 1),
		entry:  entry,
	}
	if len(mem) != 0 {
		top := uintptr(unsafe.Pointer(unsafe.SliceData(mem))) + uintptr(len(mem))
		s.sp = top &^ (stackAlign - 1)
	}
	return s
}

// newWarmSnapshot models a thread that is already running, on a goroutine
// that predates it.
func newWarmSnapshot() snapshot {
	return snapshot{resume: make(chan struct{}, 1)}
}

func (x *snapshot) cold() bool {
	return x.entry != nil
}

// restore continues execution from where x was last captured.
func (x *snapshot) restore() {
	if entry := x.entry; entry != nil {
		x.entry = nil
		go entry()
		return
	}
	x.resume <- struct{}{}
}

// capture blocks the calling goroutine, which must be the one x models,
// until x is restored.
func (x *snapshot) capture() {
	<-x.resume
}

// transplant switches execution from one thread to another. A nil from
// indicates there is no state to save, e.g. the final switch of a thread
// that has exited. The caller performs no further runtime work after to is
// restored, until from is itself restored.
func transplant(from, to *snapshot) {
	if from == to {
		return
	}
	to.restore()
	if from != nil {
		from.capture()
	}
}
