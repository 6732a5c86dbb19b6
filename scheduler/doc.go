// Package scheduler defines the Scheduler abstraction used to run reactive
// pipelines, along with two real-time implementations: Immediate, which runs
// work inline on the calling goroutine, and EventLoop, which runs all work on
// a single, dedicated worker goroutine.
//
// Schedulers are always constructed explicitly and injected, there are no
// package-level default instances.
//
// # Ordering
//
// An EventLoop orders work by due time, then by the order in which it was
// scheduled, regardless of which goroutine scheduled it. Work scheduled from
// within a running action is subject to the same ordering.
//
// # Cancellation
//
// Every Schedule* method returns a disposable.Disposable. Disposing it before
// the work starts guarantees it will never run. Disposing it while (or after)
// the work runs has no effect, the running action is never interrupted.
package scheduler
