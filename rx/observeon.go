package rx

import (
	"sync"

	"github.com/joeycumines/go-reactive/disposable"
	"github.com/joeycumines/go-reactive/scheduler"
)

// observeOnObserver queues notifications, draining them in order from a
// single action on the target scheduler, which is only scheduled while the
// queue is idle.
type observeOnObserver[T any] struct {
	*sink[T]
	scheduler scheduler.Scheduler
	mu        sync.Mutex
	queue     []Notification[T]
	// pending is the scheduled drain for generation gen, if any
	pending disposable.Disposable
	gen     uint64
	active  bool
}

// ObserveOn delivers the notifications of source to observers via s, in
// order. Disposing the subscription drops any undelivered notifications.
func ObserveOn[T any](source Observable[T], s scheduler.Scheduler) Observable[T] {
	if source == nil {
		panic(nilArgument(`source`))
	}
	if s == nil {
		panic(nilArgument(`scheduler`))
	}
	return ObservableFunc[T](func(observer Observer[T]) disposable.Disposable {
		x := &observeOnObserver[T]{
			sink:      newSink(observer),
			scheduler: s,
		}
		x.setUpstream(disposable.NewComposite(source.Subscribe(x), disposable.New(x.cancel)))
		return x
	})
}

func (x *observeOnObserver[T]) OnNext(value T) {
	x.enqueue(NextNotification(value))
}

func (x *observeOnObserver[T]) OnError(err error) {
	x.enqueue(ErrorNotification[T](err))
}

func (x *observeOnObserver[T]) OnCompleted() {
	x.enqueue(CompletedNotification[T]())
}

func (x *observeOnObserver[T]) enqueue(n Notification[T]) {
	if x.stopped.Load() {
		return
	}

	x.mu.Lock()
	x.queue = append(x.queue, n)
	if x.active {
		x.mu.Unlock()
		return
	}
	x.active = true
	x.gen++
	gen := x.gen
	x.mu.Unlock()

	d, err := x.scheduler.Schedule(x.drain)
	if err != nil {
		x.sink.OnError(err)
		return
	}

	x.mu.Lock()
	if gen == x.gen {
		x.pending = d
	}
	x.mu.Unlock()

	if x.stopped.Load() {
		x.cancel()
	}
}

// cancel disposes the latest scheduled drain. Earlier drains have already
// run, as at most one is active at a time.
func (x *observeOnObserver[T]) cancel() {
	x.mu.Lock()
	d := x.pending
	x.pending = nil
	x.mu.Unlock()
	if d != nil {
		d.Dispose()
	}
}

func (x *observeOnObserver[T]) drain() {
	for {
		x.mu.Lock()
		if len(x.queue) == 0 {
			x.active = false
			x.mu.Unlock()
			return
		}
		n := x.queue[0]
		x.queue[0] = Notification[T]{}
		x.queue = x.queue[1:]
		x.mu.Unlock()

		n.Accept(x.sink)
	}
}
