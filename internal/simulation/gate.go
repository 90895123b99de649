package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tradesim/equity-sampler/internal/store"
)

// ErrNonConvergence indicates the convergence wait exhausted its
// attempt budget without the value settling inside the bounds.
var ErrNonConvergence = errors.New("value did not converge into bounds")

// ConvergenceGate polls a triplet of slots until the current value
// falls within the bounds, flushing the store between polls to resolve
// any pending recomputation. The wait absorbs asynchronous
// recomputation latency in the external store; it does not enforce a
// nontrivial numeric invariant.
//
// MaxAttempts bounds the wait. A value of 0 restores the legacy
// unbounded behavior, which loops forever when the bounds can never be
// satisfied (for example lower > upper).
type ConvergenceGate struct {
	Store       store.ValueStore
	Interval    time.Duration
	MaxAttempts int
	Logger      Logger
}

// DefaultPollInterval is the pause between convergence polls.
const DefaultPollInterval = 50 * time.Millisecond

// NewConvergenceGate creates a gate over the given store. A
// non-positive interval falls back to DefaultPollInterval.
func NewConvergenceGate(st store.ValueStore, interval time.Duration, maxAttempts int, logger Logger) *ConvergenceGate {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &ConvergenceGate{
		Store:       st,
		Interval:    interval,
		MaxAttempts: maxAttempts,
		Logger:      logger,
	}
}

// WaitUntilInRange blocks until the value slot reads within
// [lower, upper]. It returns immediately, without a single flush or
// sleep, when the initial read already satisfies the predicate.
// Otherwise it flushes the store, sleeps one interval, and re-reads all
// three slots, until the predicate holds, the attempt budget runs out
// (ErrNonConvergence), or ctx is cancelled.
func (g *ConvergenceGate) WaitUntilInRange(ctx context.Context, valueSlot, lowerSlot, upperSlot string) error {
	for attempt := 0; ; attempt++ {
		value, lower, upper, err := g.readTriplet(valueSlot, lowerSlot, upperSlot)
		if err != nil {
			return err
		}

		if value.GreaterThanOrEqual(lower) && value.LessThanOrEqual(upper) {
			g.Logger.Debugf("converged after %d polls: %s in [%s, %s]", attempt, value, lower, upper)
			return nil
		}

		if g.MaxAttempts > 0 && attempt+1 >= g.MaxAttempts {
			return fmt.Errorf("%s=%s outside [%s, %s] after %d attempts: %w",
				valueSlot, value, lower, upper, attempt+1, ErrNonConvergence)
		}

		if err := g.Store.Flush(); err != nil {
			return fmt.Errorf("failed to flush store while waiting on %q: %w", valueSlot, err)
		}
		if err := sleep(ctx, g.Interval); err != nil {
			return fmt.Errorf("convergence wait on %q cancelled: %w", valueSlot, err)
		}
	}
}

// readTriplet reads the value and both bounds.
func (g *ConvergenceGate) readTriplet(valueSlot, lowerSlot, upperSlot string) (value, lower, upper decimal.Decimal, err error) {
	if value, err = g.Store.GetNumber(valueSlot); err != nil {
		return value, lower, upper, fmt.Errorf("failed to read value slot %q: %w", valueSlot, err)
	}
	if lower, err = g.Store.GetNumber(lowerSlot); err != nil {
		return value, lower, upper, fmt.Errorf("failed to read lower bound slot %q: %w", lowerSlot, err)
	}
	if upper, err = g.Store.GetNumber(upperSlot); err != nil {
		return value, lower, upper, fmt.Errorf("failed to read upper bound slot %q: %w", upperSlot, err)
	}
	return value, lower, upper, nil
}

// sleep pauses for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
