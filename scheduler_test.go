package lwp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingScheduler struct {
	*RoundRobin
	inits, shutdowns, nexts int
}

func (x *countingScheduler) Init() {
	x.inits++
	x.RoundRobin.Init()
}

func (x *countingScheduler) Shutdown() {
	x.shutdowns++
	x.RoundRobin.Shutdown()
}

func (x *countingScheduler) Next() *Thread {
	x.nexts++
	return x.RoundRobin.Next()
}

func TestLookupScheduler_builtin(t *testing.T) {
	for _, name := range []string{"roundrobin", "rr", " RoundRobin ", "RR"} {
		s, err := LookupScheduler(name)
		require.NoError(t, err, name)
		assert.IsType(t, (*RoundRobin)(nil), s)
	}
	a, _ := LookupScheduler("rr")
	b, _ := LookupScheduler("rr")
	assert.NotSame(t, a, b)
}

func TestLookupScheduler_unknown(t *testing.T) {
	s, err := LookupScheduler("lottery")
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrUnknownScheduler)
	assert.ErrorContains(t, err, `"lottery"`)
}

func TestRegisterScheduler(t *testing.T) {
	RegisterScheduler("Counting", func() Scheduler {
		return &countingScheduler{RoundRobin: NewRoundRobin()}
	})
	s, err := LookupScheduler("counting")
	require.NoError(t, err)
	assert.IsType(t, (*countingScheduler)(nil), s)
	assert.Contains(t, SchedulerNames(), "counting")
	assert.Contains(t, SchedulerNames(), "roundrobin")

	RegisterScheduler("nil-result", func() Scheduler { return nil })
	_, err = LookupScheduler("nil-result")
	assert.ErrorIs(t, err, ErrUnknownScheduler)
}

func TestRegisterScheduler_panics(t *testing.T) {
	assert.PanicsWithValue(t, `lwp: register scheduler: empty name`, func() {
		RegisterScheduler(" ", func() Scheduler { return NewRoundRobin() })
	})
	assert.PanicsWithValue(t, `lwp: register scheduler: nil factory`, func() {
		RegisterScheduler("x", nil)
	})
}

func TestRuntime_SetScheduler_lifecycle(t *testing.T) {
	h := newHarness(t)
	first := &countingScheduler{RoundRobin: NewRoundRobin()}
	second := &countingScheduler{RoundRobin: NewRoundRobin()}

	h.SetScheduler(first)
	assert.Equal(t, 1, first.inits)
	h.SetScheduler(first)
	assert.Equal(t, 1, first.inits)

	_, err := h.Create(func(any) int { return 0 }, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Qlen())

	h.SetScheduler(second)
	assert.Equal(t, 1, second.inits)
	assert.Equal(t, 1, first.shutdowns)
	assert.Zero(t, first.Qlen())
	assert.Equal(t, 1, second.Qlen())
	assert.Equal(t, Tid(1), second.Next().Tid())
}
