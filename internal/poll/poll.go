// internal/poll/poll.go

// Package poll implements the bounded polling loop behind every
// verification step. UI state settles asynchronously; a fixed sleep is
// either too short (flaky) or too long (slow), so assertions re-evaluate
// a read-only predicate on a ticker until it holds or the budget runs out.
package poll

import (
	"context"
	"fmt"
	"time"
)

// DefaultInterval is the tick used when a budget does not set one.
const DefaultInterval = 100 * time.Millisecond

// Budget bounds a polling assertion: how long to keep retrying and what
// to report when the condition is never observed.
type Budget struct {
	Timeout  time.Duration
	Interval time.Duration
	// Message is the fully rendered failure description. It must name the
	// expected value and the selector or URL under test so a timeout is
	// diagnosable without re-running the scenario.
	Message string
}

// TimeoutError reports a predicate that never held within its budget.
type TimeoutError struct {
	Message string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("condition not met within %s: %s", e.Timeout, e.Message)
}

// Predicate is a read-only check against observable UI state. Returning
// an error counts as "condition not met yet": reads against an element
// that has not rendered fail transiently and are retried until the
// budget is exhausted.
type Predicate func(ctx context.Context) (bool, error)

// Until evaluates pred immediately and then once per tick until it
// returns true, the budget elapses, or ctx is canceled. A predicate that
// holds on the first evaluation consumes none of the budget. Cancellation
// of the parent context is reported as ctx.Err, not as a TimeoutError.
func Until(ctx context.Context, pred Predicate, budget Budget) error {
	interval := budget.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	waitCtx, cancel := context.WithTimeout(ctx, budget.Timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		ok, err := pred(waitCtx)
		if err == nil && ok {
			return nil
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &TimeoutError{Message: budget.Message, Timeout: budget.Timeout}
		case <-ticker.C:
		}
	}
}
