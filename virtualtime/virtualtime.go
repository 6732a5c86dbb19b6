// Package virtualtime implements a deterministic scheduler, driven by a
// virtual clock that only moves when explicitly advanced.
//
// A Scheduler runs every action synchronously, on the goroutine advancing
// it, and never starts goroutines of its own, nor reads the wall clock. It
// is not safe for concurrent use.
package virtualtime

import (
	"errors"
	"time"

	"github.com/joeycumines/go-reactive/disposable"
	"github.com/joeycumines/go-reactive/internal/workqueue"
	"github.com/joeycumines/go-reactive/scheduler"
	"github.com/joeycumines/logiface"
)

// ErrAlreadyRunning is returned when attempting to advance a Scheduler from
// within one of its own actions.
var ErrAlreadyRunning = errors.New(`virtualtime: already running`)

type (
	// Scheduler is a scheduler.Scheduler, operating in virtual time. The
	// clock is measured in ticks, where one tick is one nanosecond, relative
	// to the epoch.
	Scheduler struct {
		logger  *logiface.Logger[logiface.Event]
		epoch   time.Time
		queue   workqueue.Queue
		clock   int64
		running bool
		stopped bool
	}

	// Option configures a Scheduler.
	Option interface {
		applyScheduler(*options)
	}

	options struct {
		logger *logiface.Logger[logiface.Event]
		epoch  time.Time
	}

	optionImpl struct {
		applySchedulerFunc func(*options)
	}
)

var _ scheduler.Scheduler = (*Scheduler)(nil)

// WithEpoch sets the wall-clock time that corresponds to tick zero. The
// default is the Unix epoch, in UTC.
func WithEpoch(epoch time.Time) Option {
	return &optionImpl{func(opts *options) {
		opts.epoch = epoch
	}}
}

// WithLogger configures structured logging of clock advances. A nil logger
// (the default) disables logging.
func WithLogger(logger *logiface.Logger[logiface.Event]) Option {
	return &optionImpl{func(opts *options) {
		opts.logger = logger
	}}
}

func (o *optionImpl) applyScheduler(opts *options) {
	o.applySchedulerFunc(opts)
}

// New initializes a Scheduler, with the clock at zero.
func New(opts ...Option) *Scheduler {
	cfg := options{epoch: time.Unix(0, 0).UTC()}
	for _, opt := range opts {
		if opt != nil {
			opt.applyScheduler(&cfg)
		}
	}
	return &Scheduler{
		logger: cfg.logger,
		epoch:  cfg.epoch,
	}
}

// Clock returns the current virtual time, in ticks.
func (x *Scheduler) Clock() int64 { return x.clock }

// Now returns the current virtual time, as an offset from the epoch.
func (x *Scheduler) Now() time.Time { return x.epoch.Add(time.Duration(x.clock)) }

// Pending returns the number of queued items, including any cancelled items
// that have not yet been discarded.
func (x *Scheduler) Pending() int { return x.queue.Len() }

// ScheduleAbsolute schedules action to run when the clock reaches due.
// Items due in the past run on the next advance, without moving the clock.
func (x *Scheduler) ScheduleAbsolute(due int64, action func()) (disposable.Disposable, error) {
	if action == nil {
		return nil, &scheduler.ArgumentError{Name: `action`, Message: `must not be nil`}
	}
	return x.queue.Push(due, action), nil
}

// ScheduleRelative schedules action to run delay ticks from now. Negative
// delays are treated as zero.
func (x *Scheduler) ScheduleRelative(delay int64, action func()) (disposable.Disposable, error) {
	return x.ScheduleAbsolute(x.clock+max(delay, 0), action)
}

// Schedule schedules action to run at the current virtual time, after any
// items already due.
func (x *Scheduler) Schedule(action func()) (disposable.Disposable, error) {
	return x.ScheduleAbsolute(x.clock, action)
}

// ScheduleAfter is equivalent to ScheduleRelative, with delay in ticks.
func (x *Scheduler) ScheduleAfter(delay time.Duration, action func()) (disposable.Disposable, error) {
	return x.ScheduleRelative(int64(delay), action)
}

// ScheduleAt converts due to ticks relative to the epoch, then calls
// ScheduleAbsolute.
func (x *Scheduler) ScheduleAt(due time.Time, action func()) (disposable.Disposable, error) {
	return x.ScheduleAbsolute(int64(due.Sub(x.epoch)), action)
}

// SchedulePeriodic runs action every period, see scheduler.Periodic. Runs
// are due at exact multiples of period from now.
func (x *Scheduler) SchedulePeriodic(period time.Duration, action func()) (disposable.Disposable, error) {
	return scheduler.Periodic(x, period, action)
}

// AdvanceTo runs every item due at or before target, in (due, scheduling
// order) order, then sets the clock to target. Before each item runs, the
// clock is set to its due time, unless that would move it backwards.
//
// Items scheduled by running actions are subject to the same rules, so
// nested work due at or before target also runs.
func (x *Scheduler) AdvanceTo(target int64) error {
	if target < x.clock {
		return &scheduler.ArgumentError{Name: `target`, Message: `must not be before the current clock`}
	}
	if x.running {
		return ErrAlreadyRunning
	}

	x.logger.Debug().
		Int64(`from`, x.clock).
		Int64(`to`, target).
		Log(`virtual time advancing`)

	x.drain(func(item *workqueue.Item) bool { return item.Due() <= target })
	x.clock = target

	return nil
}

// AdvanceBy calls AdvanceTo with the current clock plus delta.
func (x *Scheduler) AdvanceBy(delta int64) error {
	if delta < 0 {
		return &scheduler.ArgumentError{Name: `delta`, Message: `must not be negative`}
	}
	return x.AdvanceTo(x.clock + delta)
}

// Start runs items until none remain (or Stop is called), advancing the
// clock to the due time of each. Periodic work never drains, so must be
// disposed from within an action, or stopped using Stop.
func (x *Scheduler) Start() error {
	if x.running {
		return ErrAlreadyRunning
	}

	x.logger.Debug().
		Int64(`from`, x.clock).
		Log(`virtual time draining`)

	x.drain(func(*workqueue.Item) bool { return true })

	return nil
}

// Stop causes the current AdvanceTo or Start call to return, once the
// running action finishes. It has no effect if called outside an action.
func (x *Scheduler) Stop() {
	if x.running {
		x.stopped = true
	}
}

func (x *Scheduler) drain(runnable func(item *workqueue.Item) bool) {
	x.running = true
	x.stopped = false
	defer func() {
		x.running = false
		x.stopped = false
	}()
	for !x.stopped {
		item := x.queue.Peek()
		if item == nil || !runnable(item) {
			return
		}
		x.queue.Pop()
		if item.Due() > x.clock {
			x.clock = item.Due()
		}
		x.logger.Trace().
			Int64(`clock`, x.clock).
			Uint64(`seq`, item.Sequence()).
			Log(`virtual time item`)
		item.Invoke()
	}
}
