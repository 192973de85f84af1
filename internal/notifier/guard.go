package notifier

import (
	"context"
	"errors"
	"sync"

	"github.com/julianstephens/reviewnag/internal/logger"
)

// Guard stops presenting once the wrapped presenter reports that the
// capability is unavailable, so the engine keeps running as a silent no-op.
// Transient failures pass through unchanged.
type Guard struct {
	next Presenter

	mu       sync.Mutex
	disabled error
}

func NewGuard(next Presenter) *Guard {
	return &Guard{next: next}
}

func (g *Guard) Present(ctx context.Context, n Notification) error {
	g.mu.Lock()
	disabled := g.disabled
	g.mu.Unlock()
	if disabled != nil {
		return disabled
	}

	err := g.next.Present(ctx, n)
	if errors.Is(err, ErrUnsupported) || errors.Is(err, ErrPermissionDenied) {
		g.mu.Lock()
		if g.disabled == nil {
			logger.Warn("Notification presentation disabled", "error", err)
		}
		g.disabled = err
		g.mu.Unlock()
	}
	return err
}

// Disabled reports the error that disabled presentation, if any.
func (g *Guard) Disabled() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disabled
}

// Reset re-enables presentation, e.g. after the user grants permission.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disabled = nil
}
