package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tradesim/equity-sampler/internal/config"
	"github.com/tradesim/equity-sampler/internal/domain"
	"github.com/tradesim/equity-sampler/internal/store"
)

// ErrInvalidSampleCount indicates the sample-count slot held a
// non-numeric value or a count below one.
var ErrInvalidSampleCount = errors.New("invalid sample count")

// Orchestrator sequences one full sampling run: read the requested
// count, collect realizations, summarize them, write the summary back,
// wait for the store to settle, then write the order statistics a
// second time from the raw batch.
type Orchestrator struct {
	Store     store.ValueStore
	Slots     config.SlotBindings
	Collector *SampleCollector
	Gate      *ConvergenceGate
	Logger    Logger
}

// NewOrchestrator wires an orchestrator over the given store and
// configuration.
func NewOrchestrator(st store.ValueStore, cfg *config.Config, logger Logger) *Orchestrator {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Orchestrator{
		Store:     st,
		Slots:     cfg.Slots,
		Collector: NewSampleCollector(st, cfg.Slots.Sample, cfg.Slots.Outputs(), logger),
		Gate:      NewConvergenceGate(st, cfg.PollInterval(), cfg.MaxPollAttempts, logger),
		Logger:    logger,
	}
}

// Run executes the full sequence. Steps are strictly ordered; no step
// begins before the prior completes.
func (o *Orchestrator) Run(ctx context.Context) (*domain.RunResult, error) {
	count, err := o.readSampleCount()
	if err != nil {
		return nil, err
	}
	o.Logger.Infof("starting sampling run: %d samples from %q", count, o.Slots.Sample)

	batch, err := o.Collector.Collect(ctx, count)
	if err != nil {
		return nil, err
	}

	stats, err := Summarize(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize batch: %w", err)
	}

	if err := o.writeSummary(stats); err != nil {
		return nil, err
	}

	// The last-read sample always lies within [min, max] of its own
	// batch; the wait only absorbs recomputation latency in the store.
	if err := o.Gate.WaitUntilInRange(ctx, o.Slots.Sample, o.Slots.MinValue, o.Slots.MaxValue); err != nil {
		return nil, err
	}

	if err := o.writeOrderStatistics(batch); err != nil {
		return nil, err
	}

	o.Logger.Infof("sampling run complete: mean=%s stddev=%s", stats.ExpectedValue, stats.StandardDeviation)
	return &domain.RunResult{SampleCount: count, Statistics: stats}, nil
}

// readSampleCount reads and validates the requested sample count.
// Fractional counts are truncated toward zero.
func (o *Orchestrator) readSampleCount() (int, error) {
	raw, err := o.Store.GetNumber(o.Slots.SimCount)
	if err != nil {
		if errors.Is(err, store.ErrNotNumeric) {
			return 0, fmt.Errorf("slot %q: %v: %w", o.Slots.SimCount, err, ErrInvalidSampleCount)
		}
		return 0, fmt.Errorf("failed to read sample count from %q: %w", o.Slots.SimCount, err)
	}

	count := int(raw.IntPart())
	if count < 1 {
		return 0, fmt.Errorf("slot %q holds %s: %w", o.Slots.SimCount, raw, ErrInvalidSampleCount)
	}
	return count, nil
}

// writeSummary writes every summary field to its bound slot. The
// sampling slot is not among the outputs, so it is never overwritten.
func (o *Orchestrator) writeSummary(stats domain.SummaryStatistics) error {
	writes := []struct {
		slot  string
		value decimal.Decimal
	}{
		{o.Slots.ExpectedValue, stats.ExpectedValue},
		{o.Slots.MedianValue, stats.Median},
		{o.Slots.MinValue, stats.MinValue},
		{o.Slots.MaxValue, stats.MaxValue},
		{o.Slots.StandardDeviation, stats.StandardDeviation},
		{o.Slots.Q1Value, stats.Q1},
		{o.Slots.Q3Value, stats.Q3},
	}
	for _, w := range writes {
		if err := o.Store.SetNumber(w.slot, w.value); err != nil {
			return fmt.Errorf("failed to write result to %q: %w", w.slot, err)
		}
	}
	return nil
}

// writeOrderStatistics recomputes median, q1, and q3 directly from the
// raw batch and writes them again. The values match those written by
// writeSummary; the legacy run sequence performs this second pass
// after the convergence wait and downstream consumers observe its
// write timing, so it is kept.
func (o *Orchestrator) writeOrderStatistics(batch domain.Batch) error {
	median, q1, q3, err := OrderStatistics(batch)
	if err != nil {
		return fmt.Errorf("failed to recompute order statistics: %w", err)
	}

	if err := o.Store.SetNumber(o.Slots.MedianValue, median); err != nil {
		return fmt.Errorf("failed to write median to %q: %w", o.Slots.MedianValue, err)
	}
	if err := o.Store.SetNumber(o.Slots.Q1Value, q1); err != nil {
		return fmt.Errorf("failed to write q1 to %q: %w", o.Slots.Q1Value, err)
	}
	if err := o.Store.SetNumber(o.Slots.Q3Value, q3); err != nil {
		return fmt.Errorf("failed to write q3 to %q: %w", o.Slots.Q3Value, err)
	}
	return nil
}
