package pool

import (
	"time"
)

// Status is the outcome of a reconciliation.
type Status struct {
	// Completed marks the key as done, its rate limiting history
	// is forgotten.
	Completed bool
	Error     error

	// Interval requests a dedicated requeue delay. Without it,
	// failed keys are requeued rate limited.
	Interval time.Duration
}

func StatusCompleted() Status {
	return Status{Completed: true}
}

func StatusFailed(err error) Status {
	return Status{Error: err}
}

func StatusRedo(interval time.Duration) Status {
	return Status{Completed: true, Interval: interval}
}
