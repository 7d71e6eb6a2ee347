package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, tc := range [...]struct {
		name string
		size int
		want int
	}{
		{`zero`, 0, minSize},
		{`negative`, -3, minSize},
		{`exact`, 16, 16},
		{`rounded`, 17, 32},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q := New[int](tc.size)
			assert.Len(t, q.s, tc.want)
			assert.Equal(t, 0, q.Len())
		})
	}
}

func TestFIFO_order(t *testing.T) {
	q := New[int](0)
	for i := 0; i < 100; i++ {
		q.PushBack(i)
	}
	require.Equal(t, 100, q.Len())
	require.Len(t, q.s, 128)
	for i := 0; i < 100; i++ {
		v, ok := q.PopFront()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	_, ok := q.PopFront()
	assert.False(t, ok)
}

func TestFIFO_growWrapped(t *testing.T) {
	q := New[int](8)
	for i := 0; i < 6; i++ {
		q.PushBack(i)
	}
	for i := 0; i < 4; i++ {
		v, _ := q.PopFront()
		require.Equal(t, i, v)
	}
	// wraps around the end of the backing slice, then forces a grow
	for i := 6; i < 20; i++ {
		q.PushBack(i)
	}
	want := make([]int, 0, 16)
	for i := 4; i < 20; i++ {
		want = append(want, i)
	}
	assert.Equal(t, want, q.Slice())
	assert.Len(t, q.s, 16)
}

func TestFIFO_nilLen(t *testing.T) {
	var q *FIFO[int]
	assert.Equal(t, 0, q.Len())
	assert.Nil(t, New[int](0).Slice())
}

func TestFIFO_PopFront_releasesReference(t *testing.T) {
	q := New[*int](0)
	v := new(int)
	q.PushBack(v)
	_, _ = q.PopFront()
	for _, e := range q.s {
		assert.Nil(t, e)
	}
}
