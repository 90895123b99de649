package simulation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tradesim/equity-sampler/internal/domain"
)

func batchOf(values ...float64) domain.Batch {
	batch := make(domain.Batch, len(values))
	for i, v := range values {
		batch[i] = decimal.NewFromFloat(v)
	}
	return batch
}

func TestSummarizePopulationStdDev(t *testing.T) {
	// Classic population-stddev example: variance is exactly 4.
	batch := batchOf(2, 4, 4, 4, 5, 5, 7, 9)

	stats, err := Summarize(batch)
	if err != nil {
		t.Fatalf("Failed to summarize batch: %v", err)
	}

	if !stats.ExpectedValue.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected mean 5, got %s", stats.ExpectedValue)
	}
	if !stats.StandardDeviation.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Expected population stddev 2, got %s", stats.StandardDeviation)
	}
}

func TestSummarizeNearestRankQuartiles(t *testing.T) {
	// Even-length batch: the indexing rule picks sorted[n/2], the
	// upper median, never an interpolated value.
	batch := batchOf(1, 2, 3, 4, 5, 6, 7, 8)

	stats, err := Summarize(batch)
	if err != nil {
		t.Fatalf("Failed to summarize batch: %v", err)
	}

	if !stats.Median.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Expected median sorted[4]=5, got %s", stats.Median)
	}
	if !stats.Q1.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected q1 sorted[2]=3, got %s", stats.Q1)
	}
	if !stats.Q3.Equal(decimal.NewFromInt(7)) {
		t.Errorf("Expected q3 sorted[6]=7, got %s", stats.Q3)
	}
	if !stats.MinValue.Equal(decimal.NewFromInt(1)) || !stats.MaxValue.Equal(decimal.NewFromInt(8)) {
		t.Errorf("Expected min 1 and max 8, got %s and %s", stats.MinValue, stats.MaxValue)
	}
}

func TestSummarizeSingleRealization(t *testing.T) {
	stats, err := Summarize(batchOf(42))
	if err != nil {
		t.Fatalf("Failed to summarize batch: %v", err)
	}

	expected := decimal.NewFromInt(42)
	for name, got := range map[string]decimal.Decimal{
		"mean":   stats.ExpectedValue,
		"median": stats.Median,
		"min":    stats.MinValue,
		"max":    stats.MaxValue,
		"q1":     stats.Q1,
		"q3":     stats.Q3,
	} {
		if !got.Equal(expected) {
			t.Errorf("Expected %s 42, got %s", name, got)
		}
	}
	if !stats.StandardDeviation.IsZero() {
		t.Errorf("Expected stddev 0, got %s", stats.StandardDeviation)
	}
}

func TestSummarizeOrderingInvariant(t *testing.T) {
	batches := []domain.Batch{
		batchOf(3.2, -1.5, 0, 8.8, 4.4, 4.4, 2.1),
		batchOf(100, 100, 100),
		batchOf(5, 1, 9, 3, 7, 2, 8, 4, 6, 0),
	}

	for i, batch := range batches {
		stats, err := Summarize(batch)
		if err != nil {
			t.Fatalf("Failed to summarize batch %d: %v", i, err)
		}

		// min <= q1 <= median <= q3 <= max for every non-empty batch.
		if stats.MinValue.GreaterThan(stats.Q1) {
			t.Errorf("Batch %d: min %s > q1 %s", i, stats.MinValue, stats.Q1)
		}
		if stats.Q1.GreaterThan(stats.Median) {
			t.Errorf("Batch %d: q1 %s > median %s", i, stats.Q1, stats.Median)
		}
		if stats.Median.GreaterThan(stats.Q3) {
			t.Errorf("Batch %d: median %s > q3 %s", i, stats.Median, stats.Q3)
		}
		if stats.Q3.GreaterThan(stats.MaxValue) {
			t.Errorf("Batch %d: q3 %s > max %s", i, stats.Q3, stats.MaxValue)
		}
	}
}

func TestSummarizeDeterministic(t *testing.T) {
	batch := batchOf(12.5, 3.75, 99.99, 0.01, 47.3)

	first, err := Summarize(batch)
	if err != nil {
		t.Fatalf("Failed to summarize batch: %v", err)
	}
	second, err := Summarize(batch)
	if err != nil {
		t.Fatalf("Failed to summarize batch: %v", err)
	}

	pairs := map[string][2]decimal.Decimal{
		"mean":   {first.ExpectedValue, second.ExpectedValue},
		"median": {first.Median, second.Median},
		"min":    {first.MinValue, second.MinValue},
		"max":    {first.MaxValue, second.MaxValue},
		"stddev": {first.StandardDeviation, second.StandardDeviation},
		"q1":     {first.Q1, second.Q1},
		"q3":     {first.Q3, second.Q3},
	}
	for name, pair := range pairs {
		if !pair[0].Equal(pair[1]) {
			t.Errorf("Expected identical %s, got %s and %s", name, pair[0], pair[1])
		}
	}
}

func TestSummarizeDoesNotMutateBatch(t *testing.T) {
	batch := batchOf(9, 1, 5)
	if _, err := Summarize(batch); err != nil {
		t.Fatalf("Failed to summarize batch: %v", err)
	}

	want := batchOf(9, 1, 5)
	for i := range batch {
		if !batch[i].Equal(want[i]) {
			t.Errorf("Batch mutated at %d: expected %s, got %s", i, want[i], batch[i])
		}
	}
}

func TestSummarizeEmptyBatch(t *testing.T) {
	if _, err := Summarize(domain.Batch{}); err == nil {
		t.Error("Expected error for empty batch")
	}
}

func TestOrderStatisticsMatchesSummary(t *testing.T) {
	batch := batchOf(6, 2, 9, 4, 1, 8, 3)

	stats, err := Summarize(batch)
	if err != nil {
		t.Fatalf("Failed to summarize batch: %v", err)
	}
	median, q1, q3, err := OrderStatistics(batch)
	if err != nil {
		t.Fatalf("Failed to compute order statistics: %v", err)
	}

	if !median.Equal(stats.Median) || !q1.Equal(stats.Q1) || !q3.Equal(stats.Q3) {
		t.Errorf("Order statistics diverge from summary: got (%s, %s, %s), expected (%s, %s, %s)",
			median, q1, q3, stats.Median, stats.Q1, stats.Q3)
	}
}
