package lwp

import (
	"cmp"
	"runtime"
	"slices"
	"sync/atomic"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/go-lwp/internal/queue"
	"github.com/joeycumines/logiface"
)

// Runtime is a cooperative threading system. At most one of its threads runs
// at any time, and control transfers only at Yield, Exit, and a blocking
// Wait.
//
// Create, SetScheduler, and GetScheduler may be called before Start, from
// the goroutine that will call Start. After Start, every method must be
// called from a thread of the Runtime. GetTid and the outside-thread no-op
// behavior of Yield, Exit, and Wait are the only exceptions.
type Runtime struct {
	logger     *logiface.Logger[logiface.Event]
	traceLimit *catrate.Limiter
	allocator  StackAllocator
	exit       func(code int)

	current atomic.Pointer[Thread]

	sched Scheduler
	// rr is the default scheduler, constructed on first use
	rr *RoundRobin

	threads    map[Tid]*Thread
	terminated *queue.FIFO[*Thread]
	waiters    *queue.FIFO[*Thread]
	bootstrap  *Thread

	stackSize int
	nextTid   Tid
	live      int
}

// New creates a Runtime. Nothing runs until Start is called.
func New(opts ...Option) (*Runtime, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}
	limiter, err := newTraceLimiter(cfg.traceRates)
	if err != nil {
		return nil, err
	}
	r := &Runtime{
		logger:     cfg.logger,
		traceLimit: limiter,
		allocator:  cfg.allocator,
		exit:       cfg.exit,
		stackSize:  cfg.stackSize,
		threads:    make(map[Tid]*Thread),
		terminated: queue.New[*Thread](0),
		waiters:    queue.New[*Thread](0),
	}
	if cfg.scheduler != nil {
		r.SetScheduler(cfg.scheduler)
	}
	return r, nil
}

// Create registers a new thread, which will run fn(arg) on a dedicated
// stack, once scheduled. The thread is made ready immediately, installing the
// default scheduler if there is none.
//
// It returns NoThread and an error wrapping ErrInvalidArgument if fn is nil,
// or ErrResourceExhausted if the stack could not be allocated, in which case
// no ID is consumed.
func (r *Runtime) Create(fn Func, arg any) (Tid, error) {
	if fn == nil {
		return NoThread, ErrInvalidArgument
	}

	size := r.stackSize
	if size == 0 {
		size = StackSize()
	}
	stack, err := allocStack(r.allocator, size)
	if err != nil {
		r.logger.Err().
			Err(err).
			Int("size", size).
			Log("lwp: stack allocation failed")
		return NoThread, err
	}

	r.nextTid++
	t := &Thread{
		tid:   r.nextTid,
		fn:    fn,
		arg:   arg,
		stack: stack,
	}
	t.snap = newColdSnapshot(func() { r.trampoline(t) }, stack.Bytes())
	r.threads[t.tid] = t
	r.live++
	r.admit(t)

	r.logger.Debug().
		Uint64("tid", uint64(t.tid)).
		Int("stack", stack.Size()).
		Log("lwp: created")

	return t.tid, nil
}

// Start wraps the calling goroutine as the bootstrap thread, and transfers
// control to the scheduler. It returns once the bootstrap thread is next
// scheduled, i.e. when it behaves like a yield. It returns immediately if
// there is no scheduler and no thread. It returns ErrAlreadyStarted if it has
// already been called.
//
// When the last thread exits, the process exits with that thread's status,
// via the function configured by WithExitFunc.
func (r *Runtime) Start() error {
	if r.bootstrap != nil {
		return ErrAlreadyStarted
	}
	if r.sched == nil && len(r.threads) == 0 {
		return nil
	}

	r.nextTid++
	t := &Thread{
		tid:       r.nextTid,
		snap:      newWarmSnapshot(),
		bootstrap: true,
	}
	t.gid.Store(getGoroutineID())
	r.bootstrap = t
	r.threads[t.tid] = t
	r.live++
	r.admit(t)
	r.current.Store(t)

	r.logger.Info().
		Uint64("tid", uint64(t.tid)).
		Int("threads", r.live).
		Log("lwp: started")

	r.reschedule(t)
	return nil
}

// Yield transfers control to the thread chosen by the scheduler, which may be
// the caller. It is a no-op if the caller is not a thread of r.
func (r *Runtime) Yield() {
	t := r.self()
	if t == nil || t.status.Terminated() {
		return
	}
	r.admit(t)
	r.reschedule(t)
}

// Exit terminates the calling thread, with the low 8 bits of status as its
// exit code. Deferred calls of the thread run before control is transferred.
// It does not return, unless the caller is not a thread of r.
//
// The thread remains resolvable via Tid2Thread until it has been reaped by
// Wait. If it was the last live thread, the process exits with status.
func (r *Runtime) Exit(status int) {
	t := r.self()
	if t == nil {
		return
	}
	if !t.status.Terminated() {
		r.terminate(t, status)
	}
	if t.bootstrap {
		// the stack of the bootstrap thread belongs to its goroutine, so it
		// cannot unwind
		r.leave(t)
	}
	runtime.Goexit()
}

// Wait reaps a terminated thread, blocking until one is available, in order
// of termination. It returns NoThread and Live, without blocking, if the
// caller is the only live thread and none are terminated, or if the caller
// is not a thread of r.
//
// The process exits with ExitNoRunnable if the caller would block while no
// other thread is ready.
func (r *Runtime) Wait() (Tid, Status) {
	t := r.self()
	if t == nil || t.status.Terminated() {
		return NoThread, Live
	}
	for {
		if dead, ok := r.terminated.PopFront(); ok {
			return r.reap(dead)
		}
		if r.live <= 1 {
			return NoThread, Live
		}
		r.remove(t)
		t.waiting = true
		r.waiters.PushBack(t)
		r.logger.Debug().
			Uint64("tid", uint64(t.tid)).
			Log("lwp: waiting")
		r.reschedule(t)
	}
}

// GetTid returns the ID of the calling thread, or NoThread if the caller is
// not a thread of r. It is safe to call from any goroutine.
func (r *Runtime) GetTid() Tid {
	return r.self().Tid()
}

// Tid2Thread resolves a thread that has not yet been reaped, or returns nil.
func (r *Runtime) Tid2Thread(tid Tid) *Thread {
	return r.threads[tid]
}

// Threads returns every thread that has not yet been reaped, ordered by ID.
func (r *Runtime) Threads() []*Thread {
	threads := make([]*Thread, 0, len(r.threads))
	for _, t := range r.threads {
		threads = append(threads, t)
	}
	slices.SortFunc(threads, func(a, b *Thread) int {
		return cmp.Compare(a.tid, b.tid)
	})
	return threads
}

// Waiters returns the threads blocked in Wait, in the order they will be
// released.
func (r *Runtime) Waiters() []*Thread {
	return r.waiters.Slice()
}

// Live returns the number of threads that have not exited.
func (r *Runtime) Live() int {
	return r.live
}

// SetScheduler replaces the active scheduler. A nil scheduler selects the
// default RoundRobin. The replacement is initialized, then every ready thread
// is moved to it, in the order given by the old scheduler's Next, after which
// the old scheduler is shut down. Setting the active scheduler is a no-op.
func (r *Runtime) SetScheduler(s Scheduler) {
	if s == nil {
		s = r.roundRobin()
	}
	prev := r.sched
	if s == prev {
		return
	}

	s.Init()
	var moved int
	if prev != nil {
		for prev.Qlen() > 0 {
			t := prev.Next()
			if t == nil {
				break
			}
			prev.Remove(t)
			s.Admit(t)
			moved++
		}
		prev.Shutdown()
	}
	r.sched = s

	r.logger.Debug().
		Int("moved", moved).
		Log("lwp: scheduler replaced")
}

// GetScheduler returns the active scheduler, which is nil until one is
// needed, or set.
func (r *Runtime) GetScheduler() Scheduler {
	return r.sched
}

// self returns the current thread, if the caller is executing it.
func (r *Runtime) self() *Thread {
	if t := r.current.Load(); t != nil && t.gid.Load() == getGoroutineID() {
		return t
	}
	return nil
}

func (r *Runtime) roundRobin() *RoundRobin {
	if r.rr == nil {
		r.rr = NewRoundRobin()
	}
	return r.rr
}

func (r *Runtime) scheduler() Scheduler {
	if r.sched == nil {
		r.SetScheduler(nil)
	}
	return r.sched
}

func (r *Runtime) admit(t *Thread) {
	if !t.ready {
		r.scheduler().Admit(t)
		t.ready = true
	}
}

func (r *Runtime) remove(t *Thread) {
	if t.ready {
		r.scheduler().Remove(t)
		t.ready = false
	}
}

func (r *Runtime) terminate(t *Thread, status int) {
	t.status = Terminated(status)
	t.code = status
	r.live--
	r.remove(t)
	r.terminated.PushBack(t)
	if w, ok := r.waiters.PopFront(); ok {
		w.waiting = false
		r.admit(w)
	}
	r.logger.Debug().
		Uint64("tid", uint64(t.tid)).
		Int("status", t.status.Code()).
		Log("lwp: exited")
}

func (r *Runtime) reap(t *Thread) (Tid, Status) {
	r.remove(t)
	delete(r.threads, t.tid)
	if t.stack != nil {
		if err := r.allocator.Free(t.stack); err != nil {
			r.logger.Err().
				Err(err).
				Uint64("tid", uint64(t.tid)).
				Log("lwp: stack release failed")
		}
		t.stack = nil
	}
	r.logger.Debug().
		Uint64("tid", uint64(t.tid)).
		Int("status", t.status.Code()).
		Log("lwp: reaped")
	return t.tid, t.status
}

// reschedule transfers control from the running thread t, to the thread
// chosen by the scheduler, returning once t is next scheduled.
func (r *Runtime) reschedule(t *Thread) {
	next := r.scheduler().Next()
	if next == nil {
		r.logger.Crit().
			Err(ErrSchedulerExhausted).
			Uint64("tid", uint64(t.tid)).
			Int("live", r.live).
			Log("lwp: fatal")
		r.halt(ExitNoRunnable)
	}
	r.switchTo(t, next)
}

// leave performs the final transfer of control from t, which has exited.
func (r *Runtime) leave(t *Thread) {
	next := r.scheduler().Next()
	if next == nil {
		r.logger.Info().
			Uint64("tid", uint64(t.tid)).
			Int("status", t.status.Code()).
			Log("lwp: last thread exited")
		r.halt(t.code)
	}
	if t.bootstrap {
		r.switchTo(t, next)
		// t is never restored
		select {}
	}
	r.switchTo(nil, next)
}

// halt terminates the process, blocking forever if the exit function returns.
func (r *Runtime) halt(code int) {
	r.exit(code)
	select {}
}

func (r *Runtime) switchTo(from, to *Thread) {
	if from == to {
		return
	}
	r.traceSwitch(from, to)
	r.current.Store(to)
	var fs *snapshot
	if from != nil {
		fs = &from.snap
	}
	transplant(fs, &to.snap)
}

// trampoline is the entry point of every created thread, on its own
// goroutine.
func (r *Runtime) trampoline(t *Thread) {
	t.gid.Store(getGoroutineID())
	defer func() {
		// a thread that is still live is panicking, which must crash the
		// process, rather than resume another thread
		if t.status.Terminated() {
			r.leave(t)
		}
	}()
	r.Exit(t.fn(t.arg))
}
