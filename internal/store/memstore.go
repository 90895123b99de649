package store

import (
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
)

// MemStore is an in-memory ValueStore. A slot may be bound to a
// RealizationSource, making it volatile: any write to the store marks
// volatile slots as pending, and the next read of such a slot (or a
// Flush) recomputes it from its source. This mirrors a formula engine
// recalculating a volatile cell whenever any cell changes.
type MemStore struct {
	mu       sync.Mutex
	numbers  map[string]decimal.Decimal
	texts    map[string]string
	volatile map[string]RealizationSource
	pending  map[string]bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		numbers:  make(map[string]decimal.Decimal),
		texts:    make(map[string]string),
		volatile: make(map[string]RealizationSource),
		pending:  make(map[string]bool),
	}
}

// BindVolatile binds name to src. The slot is immediately marked
// pending so the first read already draws a fresh realization.
func (ms *MemStore) BindVolatile(name string, src RealizationSource) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.volatile[name] = src
	ms.pending[name] = true
}

// GetNumber returns the numeric value of name, recomputing it first if
// the slot is volatile with a recomputation pending.
func (ms *MemStore) GetNumber(name string) (decimal.Decimal, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.recompute(name)
	if _, ok := ms.texts[name]; ok {
		return decimal.Zero, fmt.Errorf("slot %q: %w", name, ErrNotNumeric)
	}
	v, ok := ms.numbers[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("slot %q: %w", name, ErrNoSuchSlot)
	}
	return v, nil
}

// GetText returns the text content of name, or an empty string when
// the slot holds a number or nothing.
func (ms *MemStore) GetText(name string) string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.texts[name]
}

// SetNumber stores a numeric value, replacing any text content, and
// marks every volatile slot for recomputation.
func (ms *MemStore) SetNumber(name string, value decimal.Decimal) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.numbers[name] = value
	delete(ms.texts, name)
	ms.markPending()
	return nil
}

// SetText stores a text marker, replacing any numeric content, and
// marks every volatile slot for recomputation.
func (ms *MemStore) SetText(name, text string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.texts[name] = text
	delete(ms.numbers, name)
	ms.markPending()
	return nil
}

// Flush runs a full calculation pass: every volatile slot is redrawn
// from its source, pending or not, so that subsequent reads observe
// fresh values.
func (ms *MemStore) Flush() error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for name, src := range ms.volatile {
		ms.numbers[name] = src.Next()
		delete(ms.texts, name)
		ms.pending[name] = false
	}
	return nil
}

// markPending flags every volatile slot. Callers must hold ms.mu.
func (ms *MemStore) markPending() {
	for name := range ms.volatile {
		ms.pending[name] = true
	}
}

// recompute draws a fresh realization for name if it is volatile and
// pending. Callers must hold ms.mu.
func (ms *MemStore) recompute(name string) {
	src, ok := ms.volatile[name]
	if !ok || !ms.pending[name] {
		return
	}
	ms.numbers[name] = src.Next()
	delete(ms.texts, name)
	ms.pending[name] = false
}
