// Package notifier presents reminders to the user. Presenters only deliver;
// every scheduling decision is made by the engine.
package notifier

import (
	"context"
	"errors"

	"github.com/julianstephens/reviewnag/internal/constants"
)

var (
	// ErrUnsupported means no presentation channel is available.
	ErrUnsupported = errors.New("notifications are not supported")
	// ErrPermissionDenied means the channel refused to present.
	ErrPermissionDenied = errors.New("notification permission denied")
)

// Action is a button offered with a notification.
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Data travels with a notification and comes back with user actions.
type Data struct {
	ItemID  string `json:"itemId,omitempty"`
	Attempt int    `json:"attempt"`
}

type Notification struct {
	Title              string   `json:"title"`
	Body               string   `json:"body"`
	Tag                string   `json:"tag"`
	RequireInteraction bool     `json:"requireInteraction"`
	Renotify           bool     `json:"renotify"`
	Silent             bool     `json:"silent"`
	Vibrate            []int    `json:"vibrate,omitempty"`
	Actions            []Action `json:"actions,omitempty"`
	Data               Data     `json:"data"`
}

type Presenter interface {
	Present(ctx context.Context, n Notification) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(ctx context.Context, n Notification) error

func (f PresenterFunc) Present(ctx context.Context, n Notification) error {
	return f(ctx, n)
}

// ReminderActions are attached to every reminder.
func ReminderActions() []Action {
	return []Action{
		{Action: constants.ActionReview, Title: "✅ Review now"},
		{Action: constants.ActionSnooze, Title: "⏰ Later"},
	}
}

// Welcome is shown once when presentation is first enabled.
func Welcome() Notification {
	return Notification{
		Title: "🎉 Reminders enabled",
		Body:  "You will be nagged until you review. Good luck!",
		Tag:   constants.TagWelcome,
	}
}
