package rxtest

import (
	"github.com/joeycumines/go-reactive/disposable"
	"github.com/joeycumines/go-reactive/rx"
	"github.com/joeycumines/go-reactive/virtualtime"
)

// Default instants used by Start.
const (
	Created    int64 = 100
	Subscribed int64 = 200
	Disposed   int64 = 1000
)

// TestScheduler is a virtual-time scheduler, used to drive test
// observables, and the pipelines under test.
type TestScheduler struct {
	*virtualtime.Scheduler
}

// NewTestScheduler initializes a TestScheduler, with the clock at zero.
func NewTestScheduler(opts ...virtualtime.Option) *TestScheduler {
	return &TestScheduler{Scheduler: virtualtime.New(opts...)}
}

// Start calls StartWith using the default instants.
func Start[T any](s *TestScheduler, create func() rx.Observable[T]) *Observer[T] {
	return StartWith(s, create, Created, Subscribed, Disposed)
}

// StartWith schedules the creation of an observable (by calling create) at
// created, subscribing a recording observer to it at subscribed, and
// disposing that subscription at disposed, then advances the clock to
// disposed, returning the observer.
//
// StartWith panics if the clock is already past disposed.
func StartWith[T any](s *TestScheduler, create func() rx.Observable[T], created, subscribed, disposed int64) *Observer[T] {
	if create == nil {
		panic(`rxtest: nil create`)
	}

	observer := CreateObserver[T](s)

	var (
		source       rx.Observable[T]
		subscription disposable.Disposable
	)

	s.mustSchedule(created, func() {
		source = create()
	})
	s.mustSchedule(subscribed, func() {
		if source != nil {
			subscription = source.Subscribe(observer)
		}
	})
	s.mustSchedule(disposed, func() {
		if subscription != nil {
			subscription.Dispose()
		}
	})

	if err := s.AdvanceTo(disposed); err != nil {
		panic(err)
	}

	return observer
}

func (x *TestScheduler) mustSchedule(due int64, action func()) disposable.Disposable {
	d, err := x.ScheduleAbsolute(due, action)
	if err != nil {
		panic(err)
	}
	return d
}
