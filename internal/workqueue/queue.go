// Package workqueue implements the time-ordered queue of scheduled items
// shared by the schedulers.
//
// A Queue is not safe for concurrent use: owners serialize access (the event
// loop under its mutex, virtual time on its single driving goroutine). Items
// are safe to dispose from any goroutine.
package workqueue

import (
	"container/heap"
	"sync/atomic"
)

const (
	statePending uint32 = iota
	stateRunning
	stateCancelled
)

type (
	// Item is a unit of scheduled work. Items are created by Queue.Push, and
	// implement disposable.Disposable, cancelling the work if it has not yet
	// started.
	Item struct {
		action func()
		due    int64
		seq    uint64
		state  atomic.Uint32
	}

	// Queue is a min-heap of items, ordered by due time, then by insertion
	// sequence. Cancellation is lazy: cancelled items stay in the heap until
	// they reach the head, where they are discarded.
	Queue struct {
		items     itemHeap
		seq       uint64
		discarded uint64
	}

	itemHeap []*Item
)

// Due returns the (scheduler-relative) due time of the item.
func (x *Item) Due() int64 { return x.due }

// Sequence returns the insertion sequence number of the item.
func (x *Item) Sequence() uint64 { return x.seq }

// Dispose cancels the item, if it has not yet started running. Once Dispose
// returns, a cancelled item is guaranteed never to run.
func (x *Item) Dispose() {
	x.state.CompareAndSwap(statePending, stateCancelled)
}

// IsDisposed reports whether the item was cancelled before it ran.
func (x *Item) IsDisposed() bool {
	return x.state.Load() == stateCancelled
}

// Invoke runs the action, unless the item was cancelled (or has already
// run), returning true if it ran.
func (x *Item) Invoke() bool {
	if !x.state.CompareAndSwap(statePending, stateRunning) {
		return false
	}
	action := x.action
	x.action = nil
	action()
	return true
}

// Push inserts a new item, assigning it the next sequence number.
func (x *Queue) Push(due int64, action func()) *Item {
	x.seq++
	item := &Item{action: action, due: due, seq: x.seq}
	heap.Push(&x.items, item)
	return item
}

// Peek returns the next item to run, without removing it, or nil if there
// are no runnable items. Cancelled items at the head are discarded.
func (x *Queue) Peek() *Item {
	for len(x.items) > 0 {
		head := x.items[0]
		if !head.IsDisposed() {
			return head
		}
		heap.Pop(&x.items)
		x.discarded++
	}
	return nil
}

// Pop removes and returns the next item to run, or nil if there are no
// runnable items.
func (x *Queue) Pop() *Item {
	if x.Peek() == nil {
		return nil
	}
	return heap.Pop(&x.items).(*Item)
}

// Len returns the number of items in the queue, including cancelled items
// that have not yet been discarded.
func (x *Queue) Len() int { return len(x.items) }

// Discarded returns the total number of cancelled items discarded by Peek
// or Pop.
func (x *Queue) Discarded() uint64 { return x.discarded }

// Clear cancels and removes every item, returning the number of items that
// were still pending.
func (x *Queue) Clear() (pending int) {
	for i, item := range x.items {
		if item.state.CompareAndSwap(statePending, stateCancelled) {
			pending++
		}
		x.items[i] = nil
	}
	x.items = x.items[:0]
	return pending
}

func (h itemHeap) Len() int { return len(h) }

func (h itemHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h itemHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *itemHeap) Push(x any) { *h = append(*h, x.(*Item)) }

func (h *itemHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}
