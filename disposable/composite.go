package disposable

import (
	"sync"
)

type (
	// Composite owns an ordered set of children, disposing all of them when
	// it is itself disposed. The zero value is ready to use.
	//
	// Mutations of the child set are mutually exclusive with Dispose, so no
	// child may escape disposal through a race. Children are always disposed
	// outside the internal lock, which means a child may safely interact
	// with the composite (e.g. Remove itself) while being disposed.
	Composite struct {
		mu       sync.Mutex
		children []Disposable
		disposed bool
	}

	// Serial holds a single, replaceable child. Replacing the child disposes
	// the previous one. The zero value is ready to use.
	Serial struct {
		mu       sync.Mutex
		current  Disposable
		disposed bool
	}

	// SingleAssignment holds a child that may be assigned exactly once,
	// possibly after Dispose has already been called (in which case the
	// child is disposed as soon as it is assigned). The zero value is ready
	// to use.
	SingleAssignment struct {
		mu       sync.Mutex
		current  Disposable
		assigned bool
		disposed bool
	}
)

// NewComposite initializes a Composite with the given children, ignoring nil
// values.
func NewComposite(children ...Disposable) *Composite {
	x := &Composite{children: make([]Disposable, 0, len(children))}
	for _, child := range children {
		if child != nil {
			x.children = append(x.children, child)
		}
	}
	return x
}

// Add appends child. If the composite was already disposed, child is disposed
// immediately, instead. Nil values are ignored.
func (x *Composite) Add(child Disposable) {
	if child == nil {
		return
	}
	x.mu.Lock()
	if x.disposed {
		x.mu.Unlock()
		child.Dispose()
		return
	}
	x.children = append(x.children, child)
	x.mu.Unlock()
}

// Remove removes and disposes the first occurrence of child, returning false
// if it was not present.
func (x *Composite) Remove(child Disposable) bool {
	if child == nil {
		return false
	}
	x.mu.Lock()
	if x.disposed {
		x.mu.Unlock()
		return false
	}
	for i, v := range x.children {
		if v == child {
			copy(x.children[i:], x.children[i+1:])
			x.children[len(x.children)-1] = nil
			x.children = x.children[:len(x.children)-1]
			x.mu.Unlock()
			child.Dispose()
			return true
		}
	}
	x.mu.Unlock()
	return false
}

// Len returns the number of (not yet disposed) children.
func (x *Composite) Len() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return len(x.children)
}

// Dispose disposes every child exactly once, in insertion order, and marks
// the composite as disposed.
func (x *Composite) Dispose() {
	x.mu.Lock()
	if x.disposed {
		x.mu.Unlock()
		return
	}
	x.disposed = true
	children := x.children
	x.children = nil
	x.mu.Unlock()

	for _, child := range children {
		child.Dispose()
	}
}

// IsDisposed reports whether Dispose has been called.
func (x *Composite) IsDisposed() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.disposed
}

// Set replaces the current child, disposing the previous one (if any). If
// the Serial was already disposed, child is disposed immediately.
func (x *Serial) Set(child Disposable) {
	x.mu.Lock()
	if x.disposed {
		x.mu.Unlock()
		if child != nil {
			child.Dispose()
		}
		return
	}
	previous := x.current
	x.current = child
	x.mu.Unlock()

	if previous != nil {
		previous.Dispose()
	}
}

// Dispose disposes the current child, and any subsequently set.
func (x *Serial) Dispose() {
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
func (x *Serial) IsDisposed() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.disposed
}

// Set assigns the child. It panics if called more than once.
func (x *SingleAssignment) Set(child Disposable) {
	x.mu.Lock()
	if x.assigned {
		x.mu.Unlock()
		panic(`disposable: single assignment already set`)
	}
	x.assigned = true
	if x.disposed {
		x.mu.Unlock()
		if child != nil {
			child.Dispose()
		}
		return
	}
	x.current = child
	x.mu.Unlock()
}

// Dispose disposes the assigned child, or the child yet to be assigned.
func (x *SingleAssignment) Dispose() {
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
func (x *SingleAssignment) IsDisposed() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.disposed
}
