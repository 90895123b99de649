// Package store defines the named-slot value store the sampler reads
// from and writes to, together with an in-memory implementation that
// stands in for the external formula engine.
package store

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoSuchSlot indicates a read of a slot that holds no value.
	ErrNoSuchSlot = errors.New("no such slot")
	// ErrNotNumeric indicates a numeric read of a slot that holds text.
	ErrNotNumeric = errors.New("slot value is not numeric")
)

// ValueStore is the surface of the external named-slot store. A slot
// holds either a numeric value or a text marker; the core only ever
// reads numbers. Flush blocks until any recomputation pending from
// earlier writes has resolved, so subsequent reads observe fresh
// values.
type ValueStore interface {
	GetNumber(name string) (decimal.Decimal, error)
	SetNumber(name string, value decimal.Decimal) error
	SetText(name string, text string) error
	Flush() error
}
