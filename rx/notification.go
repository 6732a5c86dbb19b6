package rx

import (
	"fmt"
)

// Kind identifies the type of a Notification.
type Kind uint8

const (
	// KindNext is a value notification.
	KindNext Kind = iota + 1
	// KindError is a terminal error notification.
	KindError
	// KindCompleted is a terminal completion notification.
	KindCompleted
)

// Notification reifies a single Observer call, as a value.
type Notification[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// NextNotification returns a KindNext notification.
func NextNotification[T any](value T) Notification[T] {
	return Notification[T]{Kind: KindNext, Value: value}
}

// ErrorNotification returns a KindError notification.
func ErrorNotification[T any](err error) Notification[T] {
	return Notification[T]{Kind: KindError, Err: err}
}

// CompletedNotification returns a KindCompleted notification.
func CompletedNotification[T any]() Notification[T] {
	return Notification[T]{Kind: KindCompleted}
}

func (k Kind) String() string {
	switch k {
	case KindNext:
		return `OnNext`
	case KindError:
		return `OnError`
	case KindCompleted:
		return `OnCompleted`
	default:
		return fmt.Sprintf(`Kind(%d)`, uint8(k))
	}
}

// Accept calls the Observer method corresponding to the notification.
func (x Notification[T]) Accept(observer Observer[T]) {
	switch x.Kind {
	case KindNext:
		observer.OnNext(x.Value)
	case KindError:
		observer.OnError(x.Err)
	case KindCompleted:
		observer.OnCompleted()
	default:
		panic(fmt.Sprintf(`rx: invalid notification kind: %d`, uint8(x.Kind)))
	}
}

// Terminal reports whether the notification is OnError or OnCompleted.
func (x Notification[T]) Terminal() bool {
	return x.Kind == KindError || x.Kind == KindCompleted
}

func (x Notification[T]) String() string {
	switch x.Kind {
	case KindNext:
		return fmt.Sprintf(`OnNext(%v)`, x.Value)
	case KindError:
		return fmt.Sprintf(`OnError(%v)`, x.Err)
	default:
		return x.Kind.String() + `()`
	}
}
