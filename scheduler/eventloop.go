package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-reactive/disposable"
	"github.com/joeycumines/go-reactive/internal/workqueue"
	"github.com/joeycumines/logiface"
)

// EventLoop is a Scheduler that runs every action on a single, dedicated
// worker goroutine, one at a time, in (due time, scheduling order) order.
//
// Scheduling is safe from any goroutine, including from within a running
// action. The internal lock is never held while an action runs.
//
// An EventLoop must be torn down using Dispose or Shutdown, or its worker
// goroutine will leak.
type EventLoop struct {
	logger       *logiface.Logger[logiface.Event]
	panicHandler func(value any)
	name         string

	// anchor is the reference point for due times, which are stored as
	// monotonic offsets from it
	anchor time.Time

	// wake has a buffer of one, and is signalled (without blocking) when an
	// item becomes the new head of the queue, and on teardown
	wake chan struct{}
	// done is closed when the worker goroutine exits
	done chan struct{}

	workerID atomic.Uint64
	state    loopState

	mu      sync.Mutex
	queue   workqueue.Queue
	metrics *loopMetrics
}

var _ Scheduler = (*EventLoop)(nil)

// NewEventLoop initializes a new EventLoop, and starts its worker goroutine.
func NewEventLoop(opts ...LoopOption) (*EventLoop, error) {
	cfg, err := resolveLoopOptions(opts)
	if err != nil {
		return nil, err
	}

	x := &EventLoop{
		logger:       cfg.logger,
		panicHandler: cfg.panicHandler,
		name:         cfg.name,
		anchor:       time.Now(),
		wake:         make(chan struct{}, 1),
		done:         make(chan struct{}),
	}
	if cfg.metricsEnabled {
		x.metrics = new(loopMetrics)
	}

	go x.run()

	return x, nil
}

// Now returns the current time, with a monotonic clock reading.
func (x *EventLoop) Now() time.Time {
	return x.anchor.Add(time.Since(x.anchor))
}

// Schedule runs action as soon as possible, after any work already due.
func (x *EventLoop) Schedule(action func()) (disposable.Disposable, error) {
	if action == nil {
		return nil, nilArgument(`action`)
	}
	return x.enqueue(x.offset(), action)
}

// ScheduleAfter runs action once delay has elapsed. Negative delays are
// treated as zero.
func (x *EventLoop) ScheduleAfter(delay time.Duration, action func()) (disposable.Disposable, error) {
	if action == nil {
		return nil, nilArgument(`action`)
	}
	if delay < 0 {
		delay = 0
	}
	return x.enqueue(x.offset()+int64(delay), action)
}

// ScheduleAt runs action at due. Times in the past are due immediately.
func (x *EventLoop) ScheduleAt(due time.Time, action func()) (disposable.Disposable, error) {
	if action == nil {
		return nil, nilArgument(`action`)
	}
	return x.enqueue(int64(due.Sub(x.anchor)), action)
}

// SchedulePeriodic runs action every period, see [Periodic].
func (x *EventLoop) SchedulePeriodic(period time.Duration, action func()) (disposable.Disposable, error) {
	return Periodic(x, period, action)
}

// State returns the current lifecycle state.
func (x *EventLoop) State() LoopState {
	return x.state.Load()
}

// Done returns a channel that is closed once the worker goroutine has
// exited, which happens (shortly) after the event loop is disposed.
func (x *EventLoop) Done() <-chan struct{} {
	return x.done
}

// Dispose tears down the event loop, without blocking. Queued work is
// discarded without running, and an in-flight action is allowed to finish.
// Subsequent attempts to schedule work fail with ErrDisposed. Dispose is
// idempotent, and may be called from within an action.
func (x *EventLoop) Dispose() {
	x.mu.Lock()
	if !x.state.TryTransition(StateRunning, StateDisposed) {
		x.mu.Unlock()
		return
	}
	discarded := x.queue.Clear()
	if x.metrics != nil {
		x.metrics.discarded += uint64(discarded)
		x.metrics.updateQueue(0)
	}
	x.mu.Unlock()

	x.signal()

	x.logger.Debug().
		Str(`name`, x.name).
		Int(`discarded`, discarded).
		Log(`event loop disposed`)
}

// Shutdown disposes the event loop, then waits for the worker goroutine to
// exit, or for ctx to be done. It returns ErrReentrantShutdown, without
// side effects, if called from the worker goroutine (use Dispose instead).
func (x *EventLoop) Shutdown(ctx context.Context) error {
	if x.isWorker() {
		return ErrReentrantShutdown
	}

	x.Dispose()

	select {
	case <-x.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Metrics returns a snapshot of runtime statistics. It returns the zero
// value unless the event loop was created using WithMetrics(true).
func (x *EventLoop) Metrics() Metrics {
	if x.metrics == nil {
		return Metrics{}
	}
	x.mu.Lock()
	snapshot, samples := x.metrics.snapshot(x.queue.Discarded())
	x.mu.Unlock()
	snapshot.Lag.compute(samples)
	return snapshot
}

// offset returns the current time, relative to the anchor.
func (x *EventLoop) offset() int64 {
	return int64(time.Since(x.anchor))
}

func (x *EventLoop) enqueue(due int64, action func()) (disposable.Disposable, error) {
	x.mu.Lock()
	if x.state.Load() != StateRunning {
		x.mu.Unlock()
		return nil, ErrDisposed
	}
	item := x.queue.Push(due, action)
	head := x.queue.Peek() == item
	if x.metrics != nil {
		x.metrics.scheduled++
		x.metrics.updateQueue(x.queue.Len())
	}
	x.mu.Unlock()

	if head {
		x.signal()
	}

	return item, nil
}

func (x *EventLoop) signal() {
	select {
	case x.wake <- struct{}{}:
	default:
	}
}

func (x *EventLoop) isWorker() bool {
	id := x.workerID.Load()
	return id != 0 && id == getGoroutineID()
}

// next returns the next item to run, or how long to wait for it (negative
// meaning indefinitely), or false if the event loop was disposed.
func (x *EventLoop) next() (item *workqueue.Item, wait time.Duration, ok bool) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.state.Load() != StateRunning {
		return nil, 0, false
	}

	head := x.queue.Peek()
	if head == nil {
		return nil, -1, true
	}

	now := x.offset()
	if d := head.Due() - now; d > 0 {
		return nil, time.Duration(d), true
	}

	x.queue.Pop()

	if x.metrics != nil {
		x.metrics.recordLag(time.Duration(now - head.Due()))
		x.metrics.updateQueue(x.queue.Len())
	}

	return head, 0, true
}

func (x *EventLoop) run() {
	defer close(x.done)

	x.workerID.Store(getGoroutineID())
	defer x.workerID.Store(0)

	defer x.recoverPanic()

	x.logger.Debug().
		Str(`name`, x.name).
		Log(`event loop started`)
	defer func() {
		x.logger.Debug().
			Str(`name`, x.name).
			Log(`event loop stopped`)
	}()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		item, wait, ok := x.next()
		if !ok {
			return
		}

		if item == nil {
			if wait < 0 {
				<-x.wake
			} else {
				timer.Reset(wait)
				select {
				case <-x.wake:
				case <-timer.C:
				}
				timer.Stop()
			}
			continue
		}

		if item.Invoke() && x.metrics != nil {
			x.mu.Lock()
			x.metrics.executed++
			x.mu.Unlock()
		}
	}
}

// recoverPanic handles a panic raised by an action. The panic is logged,
// and the event loop disposed, before the value is either passed to the
// panic handler, or re-raised.
func (x *EventLoop) recoverPanic() {
	r := recover()
	if r == nil {
		return
	}

	x.logger.Crit().
		Str(`name`, x.name).
		Interface(`panic`, r).
		Log(`event loop action panicked`)

	x.Dispose()

	if x.panicHandler == nil {
		panic(r)
	}
	x.panicHandler(r)
}
