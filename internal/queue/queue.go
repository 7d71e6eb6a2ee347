// Package queue implements a growable FIFO, backed by a power-of-two ring
// buffer.
package queue

type FIFO[E any] struct {
	s    []E
	r, w uint
}

const minSize = 8

// New returns a FIFO with room for at least size elements before it must
// grow. Size is rounded up to a power of 2.
func New[E any](size int) *FIFO[E] {
	n := minSize
	for n < size {
		n <<= 1
	}
	return &FIFO[E]{s: make([]E, n)}
}

func (x *FIFO[E]) mask(val uint) uint {
	return val & (uint(len(x.s)) - 1)
}

func (x *FIFO[E]) Len() int {
	if x == nil {
		return 0
	}
	return int(x.w - x.r)
}

// PushBack appends value to the back of the queue.
func (x *FIFO[E]) PushBack(value E) {
	if x.Len() == len(x.s) {
		x.grow()
	}
	x.s[x.mask(x.w)] = value
	x.w++
}

// PopFront removes and returns the front value. The bool is false if the queue
// was empty.
func (x *FIFO[E]) PopFront() (value E, ok bool) {
	if x.Len() == 0 {
		return value, false
	}
	i := x.mask(x.r)
	value = x.s[i]
	var zero E
	x.s[i] = zero // don't retain references
	x.r++
	if x.r == x.w {
		x.r, x.w = 0, 0
	}
	return value, true
}

// Slice copies the contents, front first.
func (x *FIFO[E]) Slice() (b []E) {
	if l := x.Len(); l != 0 {
		b = make([]E, l)
		for i := range b {
			b[i] = x.s[x.mask(x.r+uint(i))]
		}
	}
	return b
}

func (x *FIFO[E]) grow() {
	s := make([]E, uint(len(x.s))<<1)
	if len(s) == 0 {
		s = make([]E, minSize)
	}
	l := x.Len()
	for i := 0; i < l; i++ {
		s[i] = x.s[x.mask(x.r+uint(i))]
	}
	x.r = 0
	x.w = uint(l)
	x.s = s
}
