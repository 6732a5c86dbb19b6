package scheduler

import (
	"time"

	"github.com/joeycumines/go-reactive/disposable"
)

// Scheduler schedules actions to run at (or after) a point in time.
//
// All methods return an [*ArgumentError] if action is nil, and
// [ErrDisposed] if the scheduler has been torn down. Negative delays are
// treated as zero, while a negative period is an error.
type Scheduler interface {
	// Now returns the scheduler's notion of the current time.
	Now() time.Time

	// Schedule runs action as soon as possible.
	Schedule(action func()) (disposable.Disposable, error)

	// ScheduleAfter runs action once delay has elapsed.
	ScheduleAfter(delay time.Duration, action func()) (disposable.Disposable, error)

	// ScheduleAt runs action at (or as soon as possible after) due.
	ScheduleAt(due time.Time, action func()) (disposable.Disposable, error)

	// SchedulePeriodic runs action every period, starting one period from
	// now. Disposing the result stops any further runs.
	SchedulePeriodic(period time.Duration, action func()) (disposable.Disposable, error)
}

type periodic struct {
	scheduler Scheduler
	action    func()
	period    time.Duration
	chain     chain
}

// Periodic implements SchedulePeriodic on top of s.ScheduleAt, and is
// provided for use by Scheduler implementations.
//
// Each run is due exactly one period after the previous run was due (not
// after it actually ran), so delays in dispatch do not accumulate. The
// action is never run concurrently with itself. Periodic must not be used
// with schedulers that run ScheduleAt actions inline, such as [Immediate].
func Periodic(s Scheduler, period time.Duration, action func()) (disposable.Disposable, error) {
	if s == nil {
		return nil, nilArgument(`scheduler`)
	}
	if action == nil {
		return nil, nilArgument(`action`)
	}
	if period < 0 {
		return nil, negativeArgument(`period`)
	}
	x := &periodic{
		scheduler: s,
		action:    action,
		period:    period,
	}
	if err := x.schedule(s.Now().Add(period)); err != nil {
		return nil, err
	}
	return &x.chain, nil
}

func (x *periodic) schedule(due time.Time) error {
	gen := x.chain.next()
	d, err := x.scheduler.ScheduleAt(due, func() { x.run(due) })
	if err != nil {
		return err
	}
	x.chain.set(gen, d)
	return nil
}

func (x *periodic) run(due time.Time) {
	x.action()
	if x.chain.IsDisposed() {
		return
	}
	// the only possible failure is teardown of the scheduler, which ends
	// the sequence
	_ = x.schedule(due.Add(x.period))
}
