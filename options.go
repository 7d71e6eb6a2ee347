// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lwp

import (
	"fmt"
	"os"
	"time"

	"github.com/joeycumines/logiface"
)

// runtimeOptions holds configuration options for Runtime creation.
type runtimeOptions struct {
	logger     *logiface.Logger[logiface.Event]
	allocator  StackAllocator
	scheduler  Scheduler
	exit       func(code int)
	traceRates map[time.Duration]int
	stackSize  int
}

// Option configures a Runtime instance.
type Option interface {
	applyRuntime(*runtimeOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyRuntimeFunc func(*runtimeOptions) error
}

func (o *optionImpl) applyRuntime(opts *runtimeOptions) error {
	return o.applyRuntimeFunc(opts)
}

// WithLogger configures structured logging. Logging is disabled by default.
// Use logiface.Logger.Logger to convert a logger with a concrete event type.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithStackSize overrides the size of new thread stacks, which defaults to
// StackSize. A size of zero restores the default.
func WithStackSize(size int) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		if size < 0 {
			return fmt.Errorf("%w: negative stack size %d", ErrInvalidConfig, size)
		}
		opts.stackSize = size
		return nil
	}}
}

// WithStackAllocator overrides how thread stacks are obtained and released.
// A nil allocator restores DefaultStackAllocator.
func WithStackAllocator(allocator StackAllocator) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		if allocator == nil {
			allocator = DefaultStackAllocator()
		}
		opts.allocator = allocator
		return nil
	}}
}

// WithScheduler installs an initial scheduler, as if by Runtime.SetScheduler.
// Otherwise, a RoundRobin scheduler is installed the first time one is needed.
func WithScheduler(scheduler Scheduler) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		opts.scheduler = scheduler
		return nil
	}}
}

// WithExitFunc overrides the function used to terminate the process, when
// the last thread exits, or when no thread is runnable. It defaults to
// os.Exit. If the function returns, the calling goroutine blocks forever.
func WithExitFunc(exit func(code int)) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		if exit == nil {
			exit = os.Exit
		}
		opts.exit = exit
		return nil
	}}
}

// WithTraceRate limits context switch trace logging, per destination thread,
// using sliding windows, e.g. {time.Second: 10, time.Minute: 100}. Trace
// logging is unlimited by default.
func WithTraceRate(rates map[time.Duration]int) Option {
	return &optionImpl{func(opts *runtimeOptions) error {
		for window, limit := range rates {
			if window <= 0 || limit <= 0 {
				return fmt.Errorf("%w: trace rate %v: %d", ErrInvalidConfig, window, limit)
			}
		}
		opts.traceRates = rates
		return nil
	}}
}

// resolveOptions applies Option instances to runtimeOptions.
func resolveOptions(opts []Option) (*runtimeOptions, error) {
	cfg := &runtimeOptions{
		allocator: DefaultStackAllocator(),
		exit:      os.Exit,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyRuntime(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
