package lwp

import (
	"fmt"
	"os"
)

const (
	// MinStackSize is used if the stack resource limit cannot be queried.
	MinStackSize = 8 << 10

	// DefaultStackSize is used if the stack resource limit is unlimited, or
	// larger than MaxStackSize.
	DefaultStackSize = 8 << 20

	// MaxStackSize is the largest stack size derived from the resource limit.
	MaxStackSize = 1 << 30

	// stackAlign is the alignment of the initial stack pointer of a thread.
	stackAlign = 16
)

type (
	// Stack is a dedicated memory region, owned by exactly one thread, from
	// creation until the thread is reaped.
	Stack struct {
		// mapping is the whole region, which may include a guard page
		mapping []byte
		// mem is the usable part of mapping
		mem []byte
	}

	// StackAllocator obtains and releases thread stacks. Implementations must
	// return zero-initialized memory. Free will be called at most once per
	// Stack returned by Alloc.
	StackAllocator interface {
		Alloc(size int) (*Stack, error)
		Free(stack *Stack) error
	}
)

// for testing purposes
var (
	stackLimit = querySoftStackLimit
	pageSize   = os.Getpagesize
)

// NewStack wraps a region, where mem must be a sub-slice of mapping. It is
// provided for custom StackAllocator implementations.
func NewStack(mapping, mem []byte) *Stack {
	return &Stack{mapping: mapping, mem: mem}
}

// Bytes returns the usable region.
func (x *Stack) Bytes() []byte {
	if x == nil {
		return nil
	}
	return x.mem
}

// Mapping returns the whole region, including any guard area.
func (x *Stack) Mapping() []byte {
	if x == nil {
		return nil
	}
	return x.mapping
}

// Size returns the length of the usable region.
func (x *Stack) Size() int {
	return len(x.Bytes())
}

// StackSize returns the stack size that will be used for new threads, unless
// overridden via WithStackSize. It is derived from the soft stack resource
// limit, rounded up to a multiple of the page size.
func StackSize() int {
	limit, err := stackLimit()
	switch {
	case err != nil:
		return MinStackSize
	case limit == ^uint64(0), limit > MaxStackSize:
		return DefaultStackSize
	case limit < MinStackSize:
		return MinStackSize
	default:
		return roundPage(int(limit))
	}
}

func roundPage(n int) int {
	page := pageSize()
	if page <= 0 {
		return n
	}
	return (n + page - 1) &^ (page - 1)
}

func allocStack(allocator StackAllocator, size int) (*Stack, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: stack size %d", ErrResourceExhausted, size)
	}
	stack, err := allocator.Alloc(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceExhausted, err)
	}
	if stack.Size() < size {
		_ = allocator.Free(stack)
		return nil, fmt.Errorf("%w: allocator returned %d bytes, wanted %d", ErrResourceExhausted, stack.Size(), size)
	}
	return stack, nil
}
