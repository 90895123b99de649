package simulation

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/tradesim/equity-sampler/internal/domain"
)

// Summarize reduces a batch of realizations to its distribution
// summary. It is a pure function: no I/O, and the same batch always
// yields the same result. The batch is not mutated.
//
// Order statistics use the nearest-rank rule on an ascending copy:
// the value at the floor-rounded, zero-based index. For an even-length
// batch the median is therefore the upper of the two middle values,
// never their average. The standard deviation is the population form
// (divide by N, not N-1). Both choices are load-bearing for
// reproducibility against prior runs and must not be "improved".
func Summarize(batch domain.Batch) (domain.SummaryStatistics, error) {
	n := len(batch)
	if n == 0 {
		return domain.SummaryStatistics{}, fmt.Errorf("cannot summarize an empty batch")
	}

	sorted := batch.Sorted()
	mean := meanOf(batch)

	// Min and max over the unsorted batch; equivalent to the ends of
	// the sorted copy.
	min := batch[0]
	max := batch[0]
	for _, v := range batch[1:] {
		if v.LessThan(min) {
			min = v
		}
		if v.GreaterThan(max) {
			max = v
		}
	}

	return domain.SummaryStatistics{
		ExpectedValue:     mean,
		Median:            sorted[n/2],
		MinValue:          min,
		MaxValue:          max,
		StandardDeviation: populationStdDev(batch, mean),
		Q1:                sorted[n/4],
		Q3:                sorted[3*n/4],
	}, nil
}

// OrderStatistics returns the nearest-rank median, q1, and q3 of the
// batch, computed directly from a fresh sorted copy.
func OrderStatistics(batch domain.Batch) (median, q1, q3 decimal.Decimal, err error) {
	n := len(batch)
	if n == 0 {
		return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("cannot take order statistics of an empty batch")
	}
	sorted := batch.Sorted()
	return sorted[n/2], sorted[n/4], sorted[3*n/4], nil
}

// meanOf returns the arithmetic mean of a non-empty batch.
func meanOf(batch domain.Batch) decimal.Decimal {
	sum := decimal.Zero
	for _, v := range batch {
		sum = sum.Add(v)
	}
	return sum.Div(decimal.NewFromInt(int64(len(batch))))
}

// populationStdDev returns the population standard deviation of a
// non-empty batch around the given mean. The square root takes a
// float64 round-trip; decimals carry the summation.
func populationStdDev(batch domain.Batch, mean decimal.Decimal) decimal.Decimal {
	sumSq := decimal.Zero
	for _, v := range batch {
		d := v.Sub(mean)
		sumSq = sumSq.Add(d.Mul(d))
	}
	variance := sumSq.Div(decimal.NewFromInt(int64(len(batch))))
	return decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
}
