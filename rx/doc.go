// Package rx implements a push-based Observable / Observer protocol, and a
// representative set of sources and operators, all of which run on an
// injected scheduler.Scheduler.
//
// # Protocol
//
// An Observer receives zero or more OnNext calls, optionally followed by
// exactly one terminal call, OnError or OnCompleted, after which it receives
// nothing further. Calls to a given Observer are never concurrent.
//
// Subscribing returns a disposable.Disposable. Disposing it detaches the
// observer, which stops receiving notifications, and releases any upstream
// subscriptions. A subscription is also released, automatically, as soon as
// a terminal notification is delivered.
//
// # Errors
//
// Failures that occur inside a pipeline (source errors, predicate errors,
// recovered panics) are delivered as OnError notifications. Precondition
// failures, such as a nil source, cause the operator constructor to panic,
// with an error wrapping scheduler.ErrInvalidArgument.
package rx
