package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeycumines/go-reactive/disposable"
)

// Immediate is a Scheduler that runs every action inline, on the calling
// goroutine, before returning. Delayed actions block the caller for the
// delay. The zero value is ready to use.
type Immediate struct{}

var _ Scheduler = (*Immediate)(nil)

// NewImmediate returns a new Immediate scheduler.
func NewImmediate() *Immediate { return &Immediate{} }

// Now returns the current wall-clock time.
func (x *Immediate) Now() time.Time { return time.Now() }

// Schedule runs action before returning. The returned disposable is already
// spent, since the action has completed.
func (x *Immediate) Schedule(action func()) (disposable.Disposable, error) {
	if action == nil {
		return nil, nilArgument(`action`)
	}
	action()
	return disposable.Empty(), nil
}

// ScheduleAfter sleeps for delay, then runs action, before returning.
func (x *Immediate) ScheduleAfter(delay time.Duration, action func()) (disposable.Disposable, error) {
	if action == nil {
		return nil, nilArgument(`action`)
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	action()
	return disposable.Empty(), nil
}

// ScheduleAt sleeps until due, then runs action, before returning.
func (x *Immediate) ScheduleAt(due time.Time, action func()) (disposable.Disposable, error) {
	if action == nil {
		return nil, nilArgument(`action`)
	}
	return x.ScheduleAfter(time.Until(due), action)
}

// SchedulePeriodic is not supported, as it would never return. The returned
// error wraps [errors.ErrUnsupported].
func (x *Immediate) SchedulePeriodic(period time.Duration, action func()) (disposable.Disposable, error) {
	if action == nil {
		return nil, nilArgument(`action`)
	}
	if period < 0 {
		return nil, negativeArgument(`period`)
	}
	return nil, fmt.Errorf(`scheduler: immediate periodic scheduling: %w`, errors.ErrUnsupported)
}
