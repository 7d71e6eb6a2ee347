//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package lwp

import (
	"errors"
)

// HeapAllocator backs each stack with a Go heap allocation. It is used on
// platforms without anonymous mmap support in golang.org/x/sys/unix.
type HeapAllocator struct{}

// DefaultStackAllocator returns the allocator used unless WithStackAllocator
// is specified.
func DefaultStackAllocator() StackAllocator {
	return HeapAllocator{}
}

func (HeapAllocator) Alloc(size int) (*Stack, error) {
	mem := make([]byte, size)
	return &Stack{mapping: mem, mem: mem}, nil
}

func (HeapAllocator) Free(stack *Stack) error {
	if stack != nil {
		stack.mapping, stack.mem = nil, nil
	}
	return nil
}

func querySoftStackLimit() (uint64, error) {
	return 0, errors.New("lwp: stack resource limit unsupported")
}
