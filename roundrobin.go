package lwp

import (
	"github.com/joeycumines/go-lwp/internal/ring"
)

// RoundRobin is the default Scheduler. Threads run in admission order, each
// for one turn per rotation. A thread admitted while another is running runs
// after every thread that was already ready.
//
// The zero value is ready to use.
type RoundRobin struct {
	ring *ring.Ring[*Thread]
	// head is the slot of the thread most recently returned by Next, if ran,
	// otherwise the last thread of the rotation
	head int
	ran  bool
}

var _ Scheduler = (*RoundRobin)(nil)

// NewRoundRobin returns a new, initialized RoundRobin scheduler.
func NewRoundRobin() *RoundRobin {
	x := new(RoundRobin)
	x.Init()
	return x
}

func (x *RoundRobin) Init() {
	if x.ring == nil {
		x.ring = ring.New[*Thread]()
		x.head = ring.None
		x.ran = false
	}
}

func (x *RoundRobin) Shutdown() {
	x.ring = nil
	x.head = ring.None
	x.ran = false
}

func (x *RoundRobin) Admit(thread *Thread) {
	if thread == nil {
		return
	}
	x.Init()
	if x.ring.Lookup(thread) != ring.None {
		return
	}
	switch {
	case x.ring.Len() == 0:
		x.head = x.ring.InsertAfter(ring.None, thread)
		x.ran = false
	case x.ran:
		// the slot before the running thread is the end of the rotation
		x.ring.InsertBefore(x.head, thread)
	default:
		x.head = x.ring.InsertAfter(x.head, thread)
	}
}

func (x *RoundRobin) Remove(thread *Thread) {
	if x.ring == nil || thread == nil {
		return
	}
	i := x.ring.Lookup(thread)
	if i == ring.None {
		return
	}
	prev, _ := x.ring.Remove(thread)
	if i == x.head {
		x.head = prev
		x.ran = false
	}
}

func (x *RoundRobin) Next() *Thread {
	if x.Qlen() == 0 {
		return nil
	}
	x.head = x.ring.Next(x.head)
	x.ran = true
	return x.ring.Key(x.head)
}

func (x *RoundRobin) Qlen() int {
	if x.ring == nil {
		return 0
	}
	return x.ring.Len()
}

// Pending returns the ready threads, in the order they will be returned by
// Next, assuming no further changes.
func (x *RoundRobin) Pending() []*Thread {
	if x.Qlen() == 0 {
		return nil
	}
	return x.ring.Keys(x.ring.Next(x.head))
}
