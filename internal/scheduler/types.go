package scheduler

import "time"

// WakeID identifies one queued wake so it can be cancelled.
type WakeID uint64

// Wake is a payload due at a point in time.
type Wake[T any] struct {
	ID      WakeID
	At      time.Time
	Payload T
}

type item[T any] struct {
	wake  Wake[T]
	seq   uint64
	index int
}
