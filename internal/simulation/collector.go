package simulation

import (
	"context"
	"fmt"

	"github.com/tradesim/equity-sampler/internal/domain"
	"github.com/tradesim/equity-sampler/internal/store"
)

// SampleCollector harvests one realization per read of the sampling
// slot. Each read is assumed to reflect an independent re-randomization
// of the external process; the collector performs no randomization and
// does not validate independence.
type SampleCollector struct {
	Store       store.ValueStore
	SampleSlot  string
	OutputSlots []string
	Logger      Logger
}

// NewSampleCollector creates a collector over the given store and slot
// bindings. outputSlots must not contain sampleSlot.
func NewSampleCollector(st store.ValueStore, sampleSlot string, outputSlots []string, logger Logger) *SampleCollector {
	if logger == nil {
		logger = NopLogger{}
	}
	return &SampleCollector{
		Store:       st,
		SampleSlot:  sampleSlot,
		OutputSlots: outputSlots,
		Logger:      logger,
	}
}

// Collect reads the sampling slot count times and returns the
// realizations in acquisition order. After each sample a progress
// marker is written to every output slot, destructively overwriting
// prior contents. A count of zero yields an empty batch.
func (sc *SampleCollector) Collect(ctx context.Context, count int) (domain.Batch, error) {
	batch := make(domain.Batch, 0, count)

	for i := 1; i <= count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sampling aborted after %d of %d samples: %w", len(batch), count, err)
		}

		value, err := sc.Store.GetNumber(sc.SampleSlot)
		if err != nil {
			return nil, fmt.Errorf("failed to read sample %d from %q: %w", i, sc.SampleSlot, err)
		}
		batch = append(batch, value)

		marker := fmt.Sprintf("Updating...Sim %d", i)
		for _, slot := range sc.OutputSlots {
			if err := sc.Store.SetText(slot, marker); err != nil {
				return nil, fmt.Errorf("failed to write progress marker to %q: %w", slot, err)
			}
		}

		sc.Logger.Debugf("collected sample %d/%d: %s", i, count, value)
	}

	return batch, nil
}
