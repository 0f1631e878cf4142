// Implements the FIFO wait queue shared by Resource and Container.
// Requests are enqueued on arrival and granted strictly from the front.

package sim

import (
	"fmt"
	"strings"
)

// FIFO is a first-in first-out queue of pending requests.
// Arrival order is the only ordering it knows about: there is no priority
// and no way to overtake the head.
type FIFO[T comparable] struct {
	queue []T
}

// Enqueue adds an item to the back of the queue.
func (q *FIFO[T]) Enqueue(item T) {
	q.queue = append(q.queue, item)
}

func (q *FIFO[T]) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range q.queue {
		sb.WriteString(fmt.Sprint(val))
		if i < len(q.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of items in the queue.
func (q *FIFO[T]) Len() int {
	return len(q.queue)
}

// Peek returns the item at the front of the queue without removing it.
// ok is false if the queue is empty.
func (q *FIFO[T]) Peek() (item T, ok bool) {
	if len(q.queue) == 0 {
		return item, false
	}
	return q.queue[0], true
}

// Dequeue removes the item at the front of the queue.
func (q *FIFO[T]) Dequeue() (item T, ok bool) {
	if len(q.queue) == 0 {
		return item, false
	}
	item = q.queue[0]
	var zero T
	q.queue[0] = zero
	q.queue = q.queue[1:]
	return item, true
}

// Remove deletes the first occurrence of item, preserving the order of the
// rest. Used when a queued request is withdrawn.
func (q *FIFO[T]) Remove(item T) bool {
	for i, v := range q.queue {
		if v == item {
			q.queue = append(q.queue[:i], q.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Items returns the queue contents in arrival order.
// The returned slice is the queue's internal storage -- callers MUST NOT
// append to or reslice it.
func (q *FIFO[T]) Items() []T {
	return q.queue
}
