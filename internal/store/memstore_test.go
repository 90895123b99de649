package store

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreNumbers(t *testing.T) {
	ms := NewMemStore()

	require.NoError(t, ms.SetNumber("a", decimal.NewFromInt(7)))

	v, err := ms.GetNumber("a")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(7)))
}

func TestMemStoreMissingSlot(t *testing.T) {
	ms := NewMemStore()

	_, err := ms.GetNumber("missing")
	assert.True(t, errors.Is(err, ErrNoSuchSlot))
}

func TestMemStoreTextShadowsNumber(t *testing.T) {
	ms := NewMemStore()

	require.NoError(t, ms.SetNumber("a", decimal.NewFromInt(7)))
	require.NoError(t, ms.SetText("a", "Updating...Sim 1"))

	_, err := ms.GetNumber("a")
	assert.True(t, errors.Is(err, ErrNotNumeric))
	assert.Equal(t, "Updating...Sim 1", ms.GetText("a"))

	// A numeric write replaces the marker again.
	require.NoError(t, ms.SetNumber("a", decimal.NewFromInt(8)))
	v, err := ms.GetNumber("a")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, "", ms.GetText("a"))
}

func TestMemStoreVolatileRecomputesOnWrite(t *testing.T) {
	ms := NewMemStore()
	ms.BindVolatile("sample", NewSequenceSource(
		decimal.NewFromInt(1),
		decimal.NewFromInt(2),
		decimal.NewFromInt(3),
	))

	// First read resolves the initial pending recomputation.
	v, err := ms.GetNumber("sample")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(1)))

	// Re-reading without an intervening write returns the cached value.
	v, err = ms.GetNumber("sample")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(1)))

	// Any write marks the volatile slot pending again.
	require.NoError(t, ms.SetText("other", "marker"))
	v, err = ms.GetNumber("sample")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(2)))
}

func TestMemStoreFlushRedrawsVolatiles(t *testing.T) {
	ms := NewMemStore()
	ms.BindVolatile("sample", NewSequenceSource(
		decimal.NewFromInt(1),
		decimal.NewFromInt(2),
	))

	v, err := ms.GetNumber("sample")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(1)))

	// Flush is a full calculation pass: it redraws even without a
	// pending write.
	require.NoError(t, ms.Flush())
	v, err = ms.GetNumber("sample")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.NewFromInt(2)))
}
