package scheduler

import (
	"context"
	"time"
)

// maxSleepCap bounds each sleep so wall-clock jumps (suspend, NTP) are
// noticed within a minute.
const maxSleepCap = 60 * time.Second

// Handler processes one due wake. Handlers run one at a time.
type Handler[T any] func(ctx context.Context, wake Wake[T])

// Run drains q on the calling goroutine until ctx is cancelled, invoking
// handle for each wake once clock reaches its trigger time.
func Run[T any](ctx context.Context, q *Queue[T], clock Clock, handle Handler[T]) error {
	timer := time.NewTimer(maxSleepCap)
	defer timer.Stop()

	for {
		for {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			wake, ok := q.PopDue(clock.Now())
			if !ok {
				break
			}
			handle(ctx, wake)
		}

		sleep := maxSleepCap
		if next, ok := q.Peek(); ok {
			sleep = min(max(next.At.Sub(clock.Now()), 0), maxSleepCap)
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(sleep)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.Changed():
		case <-timer.C:
		}
	}
}

// RunUntil fires every wake due up to until, jumping clock forward to each
// trigger time in turn, and leaves clock at until. Wakes pushed by handlers
// are honoured if they fall inside the window. It returns the number of wakes
// handled.
func RunUntil[T any](ctx context.Context, q *Queue[T], clock *FakeClock, until time.Time, handle Handler[T]) int {
	handled := 0
	for ctx.Err() == nil {
		next, ok := q.Peek()
		if !ok || next.At.After(until) {
			break
		}
		clock.Set(next.At)
		wake, ok := q.PopDue(clock.Now())
		if !ok {
			break
		}
		handle(ctx, wake)
		handled++
	}
	clock.Set(until)
	return handled
}
