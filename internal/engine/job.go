package engine

import (
	"fmt"
	"time"

	"github.com/julianstephens/reviewnag/internal/notifier"
)

type JobKind int

const (
	// JobFire evaluates an occurrence: quiet hours, acknowledgement, present.
	JobFire JobKind = iota
	// JobEscalate re-checks acknowledgement before becoming a fire.
	JobEscalate
	// JobPoll runs one periodic due-items check.
	JobPoll
)

func (k JobKind) String() string {
	switch k {
	case JobFire:
		return "fire"
	case JobEscalate:
		return "escalate"
	case JobPoll:
		return "poll"
	default:
		return fmt.Sprintf("JobKind(%d)", int(k))
	}
}

// Job is the payload of one wake. It is never persisted.
type Job struct {
	Kind    JobKind
	Tag     string
	ItemID  string
	Title   string
	Body    string
	Attempt int
}

type State int

const (
	StateScheduled State = iota
	StateFired
	StateDeferred
	StateAcknowledged
	StateEscalating
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateFired:
		return "fired"
	case StateDeferred:
		return "deferred"
	case StateAcknowledged:
		return "acknowledged"
	case StateEscalating:
		return "escalating"
	case StateExpired:
		return "expired"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Transition is the outcome of one Step. Next is nil for terminal states.
type Transition struct {
	State     State
	Next      *Job
	At        time.Time
	Presented *notifier.Notification
}

// Terminal reports whether the occurrence has no further wake.
func (t Transition) Terminal() bool {
	return t.Next == nil
}
