//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package lwp

import (
	"errors"

	"golang.org/x/sys/unix"
)

// MmapAllocator maps each stack as an anonymous private region, with an
// inaccessible guard page below the usable part.
type MmapAllocator struct{}

// DefaultStackAllocator returns the allocator used unless WithStackAllocator
// is specified.
func DefaultStackAllocator() StackAllocator {
	return MmapAllocator{}
}

func (MmapAllocator) Alloc(size int) (*Stack, error) {
	guard := pageSize()
	mapping, err := unix.Mmap(-1, 0, guard+size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}
	if err := unix.Mprotect(mapping[:guard], unix.PROT_NONE); err != nil {
		return nil, errors.Join(err, unix.Munmap(mapping))
	}
	return &Stack{mapping: mapping, mem: mapping[guard:]}, nil
}

func (MmapAllocator) Free(stack *Stack) error {
	if stack == nil || stack.mapping == nil {
		return nil
	}
	err := unix.Munmap(stack.mapping)
	stack.mapping, stack.mem = nil, nil
	return err
}

func querySoftStackLimit() (uint64, error) {
	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_STACK, &limit); err != nil {
		return 0, err
	}
	return uint64(limit.Cur), nil
}
