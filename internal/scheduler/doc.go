// Package scheduler provides the timer queue that drives reminder wakes.
//
// A Queue is a min-heap of wakes ordered by trigger time, with FIFO order
// among equal times. Run drains it on a single goroutine against a real
// clock; RunUntil drains it against a FakeClock so tests can fast-forward
// hours of escalation in microseconds.
package scheduler
