package scheduler

import (
	"container/heap"
	"sort"
	"sync"
	"time"
)

// Queue is a concurrency-safe min-heap of wakes.
type Queue[T any] struct {
	mu     sync.Mutex
	h      wakeHeap[T]
	byID   map[WakeID]*item[T]
	nextID WakeID
	seq    uint64
	notify chan struct{}
}

func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{
		byID:   make(map[WakeID]*item[T]),
		notify: make(chan struct{}, 1),
	}
}

// Push schedules payload at at and returns the wake's id.
func (q *Queue[T]) Push(at time.Time, payload T) WakeID {
	q.mu.Lock()
	q.nextID++
	q.seq++
	it := &item[T]{
		wake: Wake[T]{ID: q.nextID, At: at, Payload: payload},
		seq:  q.seq,
	}
	heap.Push(&q.h, it)
	q.byID[it.wake.ID] = it
	id := it.wake.ID
	q.mu.Unlock()

	q.signal()
	return id
}

// Cancel removes a queued wake. It returns false if the wake already fired
// or was never queued.
func (q *Queue[T]) Cancel(id WakeID) bool {
	q.mu.Lock()
	it, ok := q.byID[id]
	if ok {
		heap.Remove(&q.h, it.index)
		delete(q.byID, id)
	}
	q.mu.Unlock()

	if ok {
		q.signal()
	}
	return ok
}

// Peek returns the earliest wake without removing it.
func (q *Queue[T]) Peek() (Wake[T], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.h) == 0 {
		return Wake[T]{}, false
	}
	return q.h[0].wake, true
}

// PopDue removes and returns the earliest wake if it is due at now.
func (q *Queue[T]) PopDue(now time.Time) (Wake[T], bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.h) == 0 || q.h[0].wake.At.After(now) {
		return Wake[T]{}, false
	}
	it := heap.Pop(&q.h).(*item[T])
	delete(q.byID, it.wake.ID)
	return it.wake, true
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.h)
}

// Pending returns a copy of every queued wake in firing order.
func (q *Queue[T]) Pending() []Wake[T] {
	q.mu.Lock()
	items := make([]*item[T], len(q.h))
	copy(items, q.h)
	q.mu.Unlock()

	sort.Slice(items, func(i, j int) bool {
		return wakeHeap[T](items).Less(i, j)
	})
	wakes := make([]Wake[T], len(items))
	for i, it := range items {
		wakes[i] = it.wake
	}
	return wakes
}

// Changed is signalled whenever the head of the queue may have moved.
func (q *Queue[T]) Changed() <-chan struct{} {
	return q.notify
}

func (q *Queue[T]) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}
