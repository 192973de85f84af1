package notifier

import (
	"context"
	"errors"
)

// Multi presents through every presenter and succeeds if any of them does.
type Multi []Presenter

func (m Multi) Present(ctx context.Context, n Notification) error {
	if len(m) == 0 {
		return ErrUnsupported
	}
	var (
		errs      []error
		delivered bool
	)
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Present(ctx, n); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered = true
	}
	if delivered {
		return nil
	}
	if len(errs) == 0 {
		return ErrUnsupported
	}
	return errors.Join(errs...)
}
