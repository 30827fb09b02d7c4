package midi

import (
	"sync/atomic"
)

// Queue is an unbounded lock-free FIFO of Msg, safe for any number of
// concurrent producers and consumers (Michael–Scott linked queue).
//
// Push never blocks. Pop never waits: it returns ok=false when the queue
// is momentarily empty, so real-time loops poll instead of suspending.
type Queue struct {
	head atomic.Pointer[queueNode]
	tail atomic.Pointer[queueNode]
	size atomic.Int64
}

type queueNode struct {
	msg  Msg
	next atomic.Pointer[queueNode]
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	q := &Queue{}
	sentinel := &queueNode{}
	q.head.Store(sentinel)
	q.tail.Store(sentinel)
	return q
}

// Push appends msg to the tail.
func (q *Queue) Push(msg Msg) {
	n := &queueNode{msg: msg}
	for {
		tail := q.tail.Load()
		next := tail.next.Load()
		if next != nil {
			// Tail is lagging; help it along and retry.
			q.tail.CompareAndSwap(tail, next)
			continue
		}
		if tail.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(tail, n)
			q.size.Add(1)
			return
		}
	}
}

// Pop removes and returns the head message. ok is false when empty.
func (q *Queue) Pop() (msg Msg, ok bool) {
	for {
		head := q.head.Load()
		next := head.next.Load()
		if next == nil {
			return Msg{}, false
		}
		if q.head.CompareAndSwap(head, next) {
			q.size.Add(-1)
			return next.msg, true
		}
	}
}

// Len reports the approximate number of queued messages. It is only a
// status-line figure; concurrent pushes and pops make it momentarily stale.
func (q *Queue) Len() int {
	n := q.size.Load()
	if n < 0 {
		return 0
	}
	return int(n)
}
