package rxtest

import (
	"slices"

	"github.com/joeycumines/go-reactive/disposable"
	"github.com/joeycumines/go-reactive/rx"
)

type (
	// HotObservable emits its messages at their (absolute) recorded times,
	// to whichever observers are subscribed at that time.
	HotObservable[T any] struct {
		scheduler     *TestScheduler
		messages      []Recorded[T]
		observers     []*hotObserver[T]
		subscriptions []Subscription
	}

	hotObserver[T any] struct {
		observer rx.Observer[T]
	}

	// ColdObservable emits its messages relative to the time of each
	// subscription, independently per subscription.
	ColdObservable[T any] struct {
		scheduler     *TestScheduler
		messages      []Recorded[T]
		subscriptions []Subscription
	}
)

var (
	_ rx.Observable[any] = (*HotObservable[any])(nil)
	_ rx.Observable[any] = (*ColdObservable[any])(nil)
)

// CreateHotObservable schedules messages at their recorded times, returning
// an observable that delivers them to its subscribers.
func CreateHotObservable[T any](s *TestScheduler, messages ...Recorded[T]) *HotObservable[T] {
	if s == nil {
		panic(`rxtest: nil scheduler`)
	}
	x := &HotObservable[T]{
		scheduler: s,
		messages:  slices.Clone(messages),
	}
	for _, message := range x.messages {
		notification := message.Notification
		s.mustSchedule(message.Time, func() {
			for _, o := range slices.Clone(x.observers) {
				notification.Accept(o.observer)
			}
		})
	}
	return x
}

// Subscribe implements rx.Observable, recording the subscription.
func (x *HotObservable[T]) Subscribe(observer rx.Observer[T]) disposable.Disposable {
	if observer == nil {
		panic(`rxtest: nil observer`)
	}
	o := &hotObserver[T]{observer: observer}
	x.observers = append(x.observers, o)
	index := len(x.subscriptions)
	x.subscriptions = append(x.subscriptions, Subscribe(x.scheduler.Clock(), Infinite))
	return disposable.New(func() {
		x.subscriptions[index].Unsubscribe = x.scheduler.Clock()
		x.observers = slices.DeleteFunc(x.observers, func(v *hotObserver[T]) bool { return v == o })
	})
}

// Messages returns the messages the observable was created with.
func (x *HotObservable[T]) Messages() []Recorded[T] { return x.messages }

// Subscriptions returns every subscription made, in order.
func (x *HotObservable[T]) Subscriptions() []Subscription { return x.subscriptions }

// CreateColdObservable returns an observable that, for each subscription,
// schedules messages at their recorded times, relative to the time of
// subscription.
func CreateColdObservable[T any](s *TestScheduler, messages ...Recorded[T]) *ColdObservable[T] {
	if s == nil {
		panic(`rxtest: nil scheduler`)
	}
	return &ColdObservable[T]{
		scheduler: s,
		messages:  slices.Clone(messages),
	}
}

// Subscribe implements rx.Observable, recording the subscription.
func (x *ColdObservable[T]) Subscribe(observer rx.Observer[T]) disposable.Disposable {
	if observer == nil {
		panic(`rxtest: nil observer`)
	}
	index := len(x.subscriptions)
	x.subscriptions = append(x.subscriptions, Subscribe(x.scheduler.Clock(), Infinite))
	pending := disposable.NewComposite()
	for _, message := range x.messages {
		notification := message.Notification
		d, err := x.scheduler.ScheduleRelative(message.Time, func() {
			notification.Accept(observer)
		})
		if err != nil {
			panic(err)
		}
		pending.Add(d)
	}
	return disposable.New(func() {
		x.subscriptions[index].Unsubscribe = x.scheduler.Clock()
		pending.Dispose()
	})
}

// Messages returns the messages the observable was created with.
func (x *ColdObservable[T]) Messages() []Recorded[T] { return x.messages }

// Subscriptions returns every subscription made, in order.
func (x *ColdObservable[T]) Subscriptions() []Subscription { return x.subscriptions }
