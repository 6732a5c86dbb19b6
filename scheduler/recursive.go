package scheduler

import (
	"sync"

	"github.com/joeycumines/go-reactive/disposable"
)

type (
	// chain tracks the one outstanding item of a self-rescheduling action.
	// Each scheduling attempt takes a generation number before it schedules,
	// and an older generation never replaces a newer one, which may happen
	// when the item runs (and reschedules) before the scheduling call that
	// created it has returned.
	chain struct {
		mu       sync.Mutex
		current  disposable.Disposable
		issued   uint64
		gen      uint64
		disposed bool
	}

	recursive struct {
		scheduler Scheduler
		action    func(again func() error)
		chain     chain
	}
)

// Recursive schedules action to run as soon as possible. Each run is passed
// a func, again, which schedules another run (after this one), returning
// any scheduling error. Disposing the result cancels any pending run, and
// causes again to do nothing.
//
// This is the building block for sources that emit one element per action,
// allowing other work on the scheduler to interleave.
func Recursive(s Scheduler, action func(again func() error)) (disposable.Disposable, error) {
	if s == nil {
		return nil, nilArgument(`scheduler`)
	}
	if action == nil {
		return nil, nilArgument(`action`)
	}
	x := &recursive{
		scheduler: s,
		action:    action,
	}
	if err := x.schedule(); err != nil {
		return nil, err
	}
	return &x.chain, nil
}

func (x *recursive) schedule() error {
	if x.chain.IsDisposed() {
		return nil
	}
	gen := x.chain.next()
	d, err := x.scheduler.Schedule(x.run)
	if err != nil {
		return err
	}
	x.chain.set(gen, d)
	return nil
}

func (x *recursive) run() {
	x.action(x.schedule)
}

func (x *chain) next() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.issued++
	return x.issued
}

func (x *chain) set(gen uint64, d disposable.Disposable) {
	x.mu.Lock()
	if x.disposed {
		x.mu.Unlock()
		d.Dispose()
		return
	}
	if gen < x.gen {
		// stale, the item has already run
		x.mu.Unlock()
		return
	}
	x.gen = gen
	x.current = d
	x.mu.Unlock()
}

// Dispose cancels the pending item, and prevents any further scheduling.
func (x *chain) Dispose() {
	x.mu.Lock()
	if x.disposed {
		x.mu.Unlock()
		return
	}
	x.disposed = true
	current := x.current
	x.current = nil
	x.mu.Unlock()

	if current != nil {
		current.Dispose()
	}
}

// IsDisposed reports whether Dispose has been called.
func (x *chain) IsDisposed() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.disposed
}
