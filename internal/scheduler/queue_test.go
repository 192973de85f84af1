package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

func TestQueue_OrdersByTimeThenInsertion(t *testing.T) {
	q := NewQueue[string]()
	q.Push(base.Add(2*time.Minute), "c")
	q.Push(base, "a")
	q.Push(base, "b")
	q.Push(base.Add(time.Minute), "x")

	var got []string
	for {
		w, ok := q.PopDue(base.Add(time.Hour))
		if !ok {
			break
		}
		got = append(got, w.Payload)
	}
	assert.Equal(t, []string{"a", "b", "x", "c"}, got)
	assert.Zero(t, q.Len())
}

func TestQueue_PopDueRespectsTime(t *testing.T) {
	q := NewQueue[int]()
	q.Push(base.Add(time.Minute), 1)

	_, ok := q.PopDue(base)
	assert.False(t, ok)

	w, ok := q.PopDue(base.Add(time.Minute))
	require.True(t, ok)
	assert.Equal(t, 1, w.Payload)
}

func TestQueue_Cancel(t *testing.T) {
	q := NewQueue[string]()
	a := q.Push(base, "a")
	b := q.Push(base.Add(time.Minute), "b")
	q.Push(base.Add(2*time.Minute), "c")

	assert.True(t, q.Cancel(b))
	assert.False(t, q.Cancel(b), "second cancel is a no-op")

	pending := q.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "a", pending[0].Payload)
	assert.Equal(t, "c", pending[1].Payload)

	_, ok := q.PopDue(base)
	require.True(t, ok)
	assert.False(t, q.Cancel(a), "fired wakes cannot be cancelled")
}

func TestQueue_SignalsChanges(t *testing.T) {
	q := NewQueue[int]()
	q.Push(base, 1)
	select {
	case <-q.Changed():
	default:
		t.Fatal("expected a change signal after Push")
	}
}

func TestFakeClock(t *testing.T) {
	c := NewFakeClock(base)
	c.Advance(time.Hour)
	assert.Equal(t, base.Add(time.Hour), c.Now())

	c.Set(base)
	assert.Equal(t, base.Add(time.Hour), c.Now(), "Set never moves backwards")
}

func TestRunUntil_FollowsWakesPushedByHandlers(t *testing.T) {
	q := NewQueue[int]()
	clock := NewFakeClock(base)
	q.Push(base, 0)

	var fired []time.Time
	handled := RunUntil(context.Background(), q, clock, base.Add(time.Hour), func(_ context.Context, w Wake[int]) {
		fired = append(fired, clock.Now())
		if w.Payload < 5 {
			q.Push(clock.Now().Add(10*time.Minute), w.Payload+1)
		}
	})

	assert.Equal(t, 6, handled)
	require.Len(t, fired, 6)
	assert.Equal(t, base.Add(50*time.Minute), fired[5])
	assert.Equal(t, base.Add(time.Hour), clock.Now())
}

func TestRunUntil_LeavesLaterWakesQueued(t *testing.T) {
	q := NewQueue[int]()
	clock := NewFakeClock(base)
	q.Push(base.Add(2*time.Hour), 1)

	handled := RunUntil(context.Background(), q, clock, base.Add(time.Hour), func(context.Context, Wake[int]) {})
	assert.Zero(t, handled)
	assert.Equal(t, 1, q.Len())
}

func TestRun_FiresDueWakesAndStops(t *testing.T) {
	q := NewQueue[string]()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan string, 2)
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, q, RealClock{}, func(_ context.Context, w Wake[string]) {
			fired <- w.Payload
		})
	}()

	q.Push(time.Now(), "now")
	q.Push(time.Now().Add(20*time.Millisecond), "soon")

	for _, want := range []string{"now", "soon"} {
		select {
		case got := <-fired:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
