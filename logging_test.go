package lwp

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]logiface.Level{
		"trace":    logiface.LevelTrace,
		" DEBUG ":  logiface.LevelDebug,
		"info":     logiface.LevelInformational,
		"notice":   logiface.LevelNotice,
		"warning":  logiface.LevelWarning,
		"warn":     logiface.LevelWarning,
		"error":    logiface.LevelError,
		"err":      logiface.LevelError,
		"critical": logiface.LevelCritical,
		"off":      logiface.LevelDisabled,
		"disabled": logiface.LevelDisabled,
	} {
		level, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, level, name)
	}
	for _, name := range []string{"", "verbose"} {
		_, err := ParseLevel(name)
		assert.ErrorIs(t, err, ErrInvalidConfig, name)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, logiface.LevelInformational)
	logger.Debug().Log("hidden")
	logger.Info().Uint64("tid", 3).Log("shown")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"tid"`)

	buf.Reset()
	NewLogger(&buf, logiface.LevelDisabled).Crit().Log("nothing")
	assert.Zero(t, buf.Len())
}

func TestNewTraceLimiter(t *testing.T) {
	limiter, err := newTraceLimiter(nil)
	require.NoError(t, err)
	assert.Nil(t, limiter)
	_, ok := limiter.Allow(Tid(1))
	assert.True(t, ok)

	limiter, err = newTraceLimiter(map[time.Duration]int{time.Hour: 1})
	require.NoError(t, err)
	_, ok = limiter.Allow(Tid(1))
	assert.True(t, ok)
	_, ok = limiter.Allow(Tid(1))
	assert.False(t, ok)
	_, ok = limiter.Allow(Tid(2))
	assert.True(t, ok)

	_, err = newTraceLimiter(map[time.Duration]int{time.Second: 5, time.Minute: 5})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestRuntime_traceRateLimit(t *testing.T) {
	var buf bytes.Buffer
	h := newHarness(t,
		WithLogger(NewLogger(&buf, logiface.LevelTrace)),
		WithTraceRate(map[time.Duration]int{time.Hour: 1}),
	)
	_, err := h.Create(func(any) int {
		h.Yield()
		return 0
	}, nil)
	require.NoError(t, err)

	code := h.run(t, func() {
		if err := h.Start(); err != nil {
			panic(err)
		}
		h.Wait()
		h.Exit(0)
	})

	assert.Equal(t, 0, code)
	// one switch to each thread, of two each
	assert.Equal(t, 2, strings.Count(buf.String(), `"msg":"lwp: switch"`))
}

func TestRuntime_logsStackRelease(t *testing.T) {
	var buf bytes.Buffer
	allocator := &failingFreeAllocator{}
	h := newHarness(t,
		WithLogger(NewLogger(&buf, logiface.LevelError)),
		WithStackAllocator(allocator),
	)
	_, err := h.Create(func(any) int { return 0 }, nil)
	require.NoError(t, err)
	code := h.run(t, func() {
		if err := h.Start(); err != nil {
			panic(err)
		}
		h.Wait()
		h.Exit(0)
	})
	assert.Equal(t, 0, code)
	assert.Contains(t, buf.String(), `"msg":"lwp: stack release failed"`)
	assert.Contains(t, buf.String(), `already unmapped`)
}

type failingFreeAllocator struct {
	testAllocator
}

func (x *failingFreeAllocator) Free(*Stack) error {
	return errAlreadyUnmapped
}

var errAlreadyUnmapped = errors.New("already unmapped")
