package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Batch is the ordered sequence of realizations gathered in one run.
// Insertion order is acquisition order; the statistics do not depend on
// it, but progress reporting and auditing do.
type Batch []decimal.Decimal

// Sorted returns an ascending copy of the batch. The receiver is not
// mutated.
func (b Batch) Sorted() Batch {
	sorted := make(Batch, len(b))
	copy(sorted, b)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	return sorted
}

// SummaryStatistics is the distribution summary of one Batch. It is
// recomputed fresh on every run and never partially updated.
type SummaryStatistics struct {
	ExpectedValue     decimal.Decimal `json:"expected_value"`
	Median            decimal.Decimal `json:"median"`
	MinValue          decimal.Decimal `json:"min_value"`
	MaxValue          decimal.Decimal `json:"max_value"`
	StandardDeviation decimal.Decimal `json:"standard_deviation"`
	Q1                decimal.Decimal `json:"q1"`
	Q3                decimal.Decimal `json:"q3"`
}

// RunResult captures the outcome of one orchestrated sampling run.
type RunResult struct {
	SampleCount int               `json:"sample_count"`
	Statistics  SummaryStatistics `json:"statistics"`
}
