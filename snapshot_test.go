package lwp

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColdSnapshot_stackPointer(t *testing.T) {
	mem := make([]byte, 4096+7)
	s := newColdSnapshot(func() {}, mem[3:])
	base := uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
	assert.True(t, s.cold())
	assert.Zero(t, s.sp%stackAlign)
	assert.LessOrEqual(t, s.sp, base+uintptr(len(mem)))
	assert.Greater(t, s.sp, base+uintptr(len(mem))-stackAlign)

	assert.Zero(t, newColdSnapshot(func() {}, nil).sp)
	assert.False(t, (&snapshot{}).cold())
}

func TestTransplant(t *testing.T) {
	var order []string
	done := make(chan struct{})
	main := newWarmSnapshot()
	var worker snapshot
	var launches int
	worker = newColdSnapshot(func() {
		launches++
		order = append(order, "worker")
		transplant(&worker, &main)
		order = append(order, "worker resumed")
		transplant(nil, &main)
		close(done)
	}, make([]byte, 64))

	transplant(&main, &worker)
	require.False(t, worker.cold())
	order = append(order, "main")
	transplant(&main, &worker)
	order = append(order, "main resumed")
	<-done

	assert.Equal(t, 1, launches)
	assert.Equal(t, []string{"worker", "main", "worker resumed", "main resumed"}, order)
}

func TestTransplant_self(t *testing.T) {
	s := newWarmSnapshot()
	transplant(&s, &s)
	assert.Empty(t, s.resume)
}
