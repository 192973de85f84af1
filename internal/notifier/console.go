package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console writes notifications to w. It backs the --dry-run flag and the
// fallback presenter when nothing else is available.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Present(_ context.Context, n Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", n.Tag, n.Title)
	if n.Body != "" {
		fmt.Fprintf(&b, "    %s\n", n.Body)
	}
	if n.Data.Attempt > 0 {
		fmt.Fprintf(&b, "    attempt=%d vibrate=%v\n", n.Data.Attempt, n.Vibrate)
	}
	_, err := io.WriteString(c.w, b.String())
	return err
}
