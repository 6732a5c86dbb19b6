package rx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/joeycumines/go-reactive/disposable"
	"github.com/joeycumines/go-reactive/rx"
	"github.com/joeycumines/go-reactive/rxtest"
	"github.com/joeycumines/go-reactive/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_enforcesProtocol(t *testing.T) {
	var (
		values    []int
		completed int
		detached  bool
	)
	source := rx.Create(func(observer rx.Observer[int]) disposable.Disposable {
		observer.OnNext(1)
		observer.OnCompleted()
		observer.OnNext(2)
		observer.OnError(errors.New(`late`))
		observer.OnCompleted()
		return disposable.New(func() { detached = true })
	})
	d := source.Subscribe(rx.NewObserver(
		func(v int) { values = append(values, v) },
		func(err error) { t.Errorf(`unexpected error: %v`, err) },
		func() { completed++ },
	))
	require.NotNil(t, d)
	assert.Equal(t, []int{1}, values)
	assert.Equal(t, 1, completed)
	assert.True(t, detached, `teardown runs once terminated`)
}

func TestCreate_disposeDetaches(t *testing.T) {
	s := rxtest.NewTestScheduler()
	var teardown int64 = -1
	res := rxtest.StartWith(s, func() rx.Observable[int] {
		return rx.Create(func(observer rx.Observer[int]) disposable.Disposable {
			tick, _ := s.SchedulePeriodic(10, func() { observer.OnNext(int(s.Clock())) })
			return disposable.New(func() {
				teardown = s.Clock()
				tick.Dispose()
			})
		})
	}, 100, 200, 235)
	rxtest.AssertMessages(t, res.Messages(),
		rxtest.OnNext(210, 210),
		rxtest.OnNext(220, 220),
		rxtest.OnNext(230, 230),
	)
	assert.Equal(t, int64(235), teardown)
}

func TestCreate_nilDisposable(t *testing.T) {
	var got []int
	d := rx.Create(func(observer rx.Observer[int]) disposable.Disposable {
		observer.OnNext(7)
		return nil
	}).Subscribe(rx.NewObserver(func(v int) { got = append(got, v) }, nil, nil))
	require.NotNil(t, d)
	d.Dispose()
	assert.Equal(t, []int{7}, got)
}

func TestObservableFunc_nilObserver(t *testing.T) {
	assert.Panics(t, func() { rx.Empty[int](scheduler.NewImmediate()).Subscribe(nil) })
	assert.Panics(t, func() { rx.Create[int](nil) })
}

func TestSources(t *testing.T) {
	errBoom := errors.New(`boom`)
	for _, tc := range [...]struct {
		name   string
		source func(s *rxtest.TestScheduler) rx.Observable[int]
		want   []rxtest.Recorded[int]
	}{
		{
			name:   `Return`,
			source: func(s *rxtest.TestScheduler) rx.Observable[int] { return rx.Return[int](s, 42) },
			want:   []rxtest.Recorded[int]{rxtest.OnNext(200, 42), rxtest.OnCompleted[int](200)},
		},
		{
			name:   `Empty`,
			source: func(s *rxtest.TestScheduler) rx.Observable[int] { return rx.Empty[int](s) },
			want:   []rxtest.Recorded[int]{rxtest.OnCompleted[int](200)},
		},
		{
			name:   `Throw`,
			source: func(s *rxtest.TestScheduler) rx.Observable[int] { return rx.Throw[int](s, errBoom) },
			want:   []rxtest.Recorded[int]{rxtest.OnError[int](200, errBoom)},
		},
		{
			name:   `FromSlice`,
			source: func(s *rxtest.TestScheduler) rx.Observable[int] { return rx.FromSlice[int](s, []int{1, 2, 3}) },
			want: []rxtest.Recorded[int]{
				rxtest.OnNext(200, 1),
				rxtest.OnNext(200, 2),
				rxtest.OnNext(200, 3),
				rxtest.OnCompleted[int](200),
			},
		},
		{
			name:   `FromSlice empty`,
			source: func(s *rxtest.TestScheduler) rx.Observable[int] { return rx.FromSlice[int](s, nil) },
			want:   []rxtest.Recorded[int]{rxtest.OnCompleted[int](200)},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := rxtest.NewTestScheduler()
			res := rxtest.Start(s, func() rx.Observable[int] { return tc.source(s) })
			rxtest.AssertMessages(t, res.Messages(), tc.want...)
			assert.Equal(t, 0, s.Pending())
		})
	}
}

func TestSources_argumentChecking(t *testing.T) {
	assert.Panics(t, func() { rx.Return[int](nil, 1) })
	assert.Panics(t, func() { rx.Empty[int](nil) })
	assert.Panics(t, func() { rx.Throw[int](nil, errors.New(`x`)) })
	assert.Panics(t, func() { rx.Throw[int](scheduler.NewImmediate(), nil) })
	assert.Panics(t, func() { rx.FromSlice[int](nil, nil) })
}

func TestFromSlice_disposeStopsEmission(t *testing.T) {
	s := rxtest.NewTestScheduler()
	var got []int
	var d disposable.Disposable
	_, _ = s.ScheduleAbsolute(10, func() {
		d = rx.FromSlice[int](s, []int{1, 2, 3, 4}).Subscribe(rx.NewObserver(func(v int) {
			got = append(got, v)
			if v == 2 {
				d.Dispose()
			}
		}, nil, nil))
	})
	require.NoError(t, s.Start())
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 0, s.Pending())
}

func TestFromSlice_interleaves(t *testing.T) {
	s := rxtest.NewTestScheduler()
	var log []any
	_, _ = s.ScheduleAbsolute(10, func() {
		rx.FromSlice[string](s, []string{`a`, `b`}).Subscribe(rx.NewObserver(func(v string) { log = append(log, v) }, nil, nil))
		_, _ = s.Schedule(func() { log = append(log, 0) })
	})
	require.NoError(t, s.Start())
	assert.Equal(t, []any{`a`, 0, `b`}, log)
}

func TestMaterialize(t *testing.T) {
	errBoom := errors.New(`boom`)
	for _, tc := range [...]struct {
		name     string
		messages []rxtest.Recorded[int]
		want     []rxtest.Recorded[rx.Notification[int]]
	}{
		{
			name: `completed`,
			messages: []rxtest.Recorded[int]{
				rxtest.OnNext(210, 1),
				rxtest.OnCompleted[int](250),
			},
			want: []rxtest.Recorded[rx.Notification[int]]{
				rxtest.OnNext(210, rx.NextNotification(1)),
				rxtest.OnNext(250, rx.CompletedNotification[int]()),
				rxtest.OnCompleted[rx.Notification[int]](250),
			},
		},
		{
			name: `error`,
			messages: []rxtest.Recorded[int]{
				rxtest.OnNext(210, 1),
				rxtest.OnError[int](220, errBoom),
			},
			want: []rxtest.Recorded[rx.Notification[int]]{
				rxtest.OnNext(210, rx.NextNotification(1)),
				rxtest.OnNext(220, rx.ErrorNotification[int](errBoom)),
				rxtest.OnCompleted[rx.Notification[int]](220),
			},
		},
		{
			name:     `never`,
			messages: []rxtest.Recorded[int]{rxtest.OnNext(150, 1)},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := rxtest.NewTestScheduler()
			xs := rxtest.CreateHotObservable(s, tc.messages...)
			res := rxtest.Start(s, func() rx.Observable[rx.Notification[int]] {
				return rx.Materialize[int](xs)
			})
			rxtest.AssertMessages(t, res.Messages(), tc.want...)
		})
	}
}

func TestObserveOn_virtualTime(t *testing.T) {
	s := rxtest.NewTestScheduler()
	xs := rxtest.CreateHotObservable(s,
		rxtest.OnNext(150, 1),
		rxtest.OnNext(210, 2),
		rxtest.OnNext(220, 3),
		rxtest.OnCompleted[int](250),
	)
	res := rxtest.Start(s, func() rx.Observable[int] { return rx.ObserveOn[int](xs, s) })
	rxtest.AssertMessages(t, res.Messages(),
		rxtest.OnNext(210, 2),
		rxtest.OnNext(220, 3),
		rxtest.OnCompleted[int](250),
	)
	rxtest.AssertSubscriptions(t, xs.Subscriptions(), rxtest.Subscribe(200, 250))
}

func TestObserveOn_disposeDropsUndelivered(t *testing.T) {
	s := rxtest.NewTestScheduler()
	xs := rxtest.CreateHotObservable(s,
		rxtest.OnNext(210, 1),
		rxtest.OnNext(220, 2),
	)
	// the hot message at 210 is queued ahead of the dispose, but delivery
	// is scheduled behind it
	res := rxtest.StartWith(s, func() rx.Observable[int] { return rx.ObserveOn[int](xs, s) }, 100, 200, 210)
	rxtest.AssertMessages(t, res.Messages())
	rxtest.AssertSubscriptions(t, xs.Subscriptions(), rxtest.Subscribe(200, 210))
	assert.Equal(t, 1, s.Pending(), `only the hot message at 220 remains`)
}

func TestObserveOn_eventLoop(t *testing.T) {
	defer checkNumGoroutines(time.Second * 5)(t)

	loop, err := scheduler.NewEventLoop()
	require.NoError(t, err)
	defer func() { require.NoError(t, loop.Shutdown(context.Background())) }()

	values := make([]int, 100)
	for i := range values {
		values[i] = i
	}

	source := rx.Create(func(observer rx.Observer[int]) disposable.Disposable {
		go func() {
			for _, v := range values {
				observer.OnNext(v)
			}
			observer.OnCompleted()
		}()
		return nil
	})
	got, err := rx.ToSlice(context.Background(), rx.ObserveOn[int](source, loop))
	require.NoError(t, err)
	assert.Equal(t, values, got)
}

func TestObserveOn_disposedScheduler(t *testing.T) {
	loop, err := scheduler.NewEventLoop()
	require.NoError(t, err)
	require.NoError(t, loop.Shutdown(context.Background()))

	_, err = rx.ToSlice(context.Background(), rx.ObserveOn[int](rx.Return[int](scheduler.NewImmediate(), 1), loop))
	assert.ErrorIs(t, err, scheduler.ErrDisposed)
}

func TestObserveOn_argumentChecking(t *testing.T) {
	assert.Panics(t, func() { rx.ObserveOn[int](nil, scheduler.NewImmediate()) })
	assert.Panics(t, func() { rx.ObserveOn[int](rx.Empty[int](scheduler.NewImmediate()), nil) })
}

func TestToSlice(t *testing.T) {
	got, err := rx.ToSlice(context.Background(), rx.FromSlice[string](scheduler.NewImmediate(), []string{`a`, `b`}))
	require.NoError(t, err)
	assert.Equal(t, []string{`a`, `b`}, got)

	errBoom := errors.New(`boom`)
	got, err = rx.ToSlice(context.Background(), rx.Throw[string](scheduler.NewImmediate(), errBoom))
	assert.Equal(t, errBoom, err)
	assert.Nil(t, got)

	assert.Panics(t, func() { _, _ = rx.ToSlice[int](context.Background(), nil) })
}

func TestToSlice_contextCancelled(t *testing.T) {
	defer checkNumGoroutines(time.Second * 5)(t)

	var detached disposable.Flag
	never := rx.Create(func(rx.Observer[int]) disposable.Disposable { return &detached })

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*20)
	defer cancel()
	got, err := rx.ToSlice(ctx, never)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, got)
	assert.True(t, detached.IsDisposed())
}

func TestNotification(t *testing.T) {
	errBoom := errors.New(`boom`)
	for _, tc := range [...]struct {
		notification rx.Notification[int]
		str          string
		terminal     bool
		want         []rxtest.Recorded[int]
	}{
		{rx.NextNotification(3), `OnNext(3)`, false, []rxtest.Recorded[int]{rxtest.OnNext(0, 3)}},
		{rx.ErrorNotification[int](errBoom), `OnError(boom)`, true, []rxtest.Recorded[int]{rxtest.OnError[int](0, errBoom)}},
		{rx.CompletedNotification[int](), `OnCompleted()`, true, []rxtest.Recorded[int]{rxtest.OnCompleted[int](0)}},
	} {
		t.Run(tc.str, func(t *testing.T) {
			assert.Equal(t, tc.str, tc.notification.String())
			assert.Equal(t, tc.terminal, tc.notification.Terminal())
			observer := rxtest.CreateObserver[int](rxtest.NewTestScheduler())
			tc.notification.Accept(observer)
			rxtest.AssertMessages(t, observer.Messages(), tc.want...)
		})
	}

	assert.Equal(t, `Kind(9)`, rx.Kind(9).String())
	assert.Panics(t, func() { rx.Notification[int]{}.Accept(rx.NewObserver[int](nil, nil, nil)) })
}

func TestPanicError(t *testing.T) {
	errBoom := errors.New(`boom`)
	err := &rx.PanicError{Value: errBoom}
	assert.Equal(t, `rx: recovered panic: boom`, err.Error())
	assert.ErrorIs(t, err, errBoom)
	assert.NoError(t, (&rx.PanicError{Value: 5}).Unwrap())
}
