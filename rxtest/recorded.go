package rxtest

import (
	"fmt"
	"math"
	"strconv"

	"github.com/joeycumines/go-reactive/rx"
)

// Infinite is the Unsubscribe time of a Subscription that is still active.
const Infinite int64 = math.MaxInt64

type (
	// Recorded is a notification, and the virtual time it was observed.
	Recorded[T any] struct {
		Time         int64
		Notification rx.Notification[T]
	}

	// Subscription records the virtual times at which an observer was
	// subscribed, and unsubscribed (or Infinite).
	Subscription struct {
		Subscribe   int64
		Unsubscribe int64
	}
)

// OnNext returns a recorded OnNext notification.
func OnNext[T any](time int64, value T) Recorded[T] {
	return Recorded[T]{Time: time, Notification: rx.NextNotification(value)}
}

// OnError returns a recorded OnError notification.
func OnError[T any](time int64, err error) Recorded[T] {
	return Recorded[T]{Time: time, Notification: rx.ErrorNotification[T](err)}
}

// OnCompleted returns a recorded OnCompleted notification.
func OnCompleted[T any](time int64) Recorded[T] {
	return Recorded[T]{Time: time, Notification: rx.CompletedNotification[T]()}
}

// Subscribe returns a Subscription, which is still active if unsubscribe
// is Infinite.
func Subscribe(subscribe, unsubscribe int64) Subscription {
	return Subscription{Subscribe: subscribe, Unsubscribe: unsubscribe}
}

func (x Recorded[T]) String() string {
	return fmt.Sprintf(`%s@%d`, x.Notification, x.Time)
}

func (x Subscription) String() string {
	unsubscribe := `Infinite`
	if x.Unsubscribe != Infinite {
		unsubscribe = strconv.FormatInt(x.Unsubscribe, 10)
	}
	return fmt.Sprintf(`(%d, %s)`, x.Subscribe, unsubscribe)
}
