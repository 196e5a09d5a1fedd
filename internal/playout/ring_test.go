package playout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingAppendAndAt(t *testing.T) {
	r := newRing(make([]float32, 8))

	r.append([]float32{1, 2, 3})
	assert.Equal(t, int64(3), r.writePos)
	assert.Equal(t, int64(0), r.readPos)
	assert.Equal(t, float32(1), r.at(0))
	assert.Equal(t, float32(3), r.at(2))
}

func TestRingAppendWrapsModuloCapacity(t *testing.T) {
	r := newRing(make([]float32, 4))

	r.append([]float32{1, 2, 3, 4})
	r.retire(3)
	r.append([]float32{5, 6, 7})

	// Positions stay monotonic; storage wraps underneath.
	assert.Equal(t, int64(7), r.writePos)
	assert.Equal(t, float32(4), r.at(3))
	assert.Equal(t, float32(5), r.at(4))
	assert.Equal(t, float32(7), r.at(6))
}

func TestRingOverflowEvictsExactly(t *testing.T) {
	r := newRing(make([]float32, 4))

	evicted := r.append([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	assert.Equal(t, int64(6), evicted)
	assert.Equal(t, int64(10), r.writePos)
	assert.Equal(t, int64(6), r.readPos)
	assert.Equal(t, r.capacity, r.writePos-r.readPos)
	assert.Equal(t, float32(7), r.at(6))
	assert.Equal(t, float32(10), r.at(9))
}

func TestRingRetireBounds(t *testing.T) {
	r := newRing(make([]float32, 8))
	r.append([]float32{1, 2, 3, 4})

	r.retire(-5) // negative target: clamped, never regresses
	assert.Equal(t, int64(0), r.readPos)

	r.retire(2)
	assert.Equal(t, int64(2), r.readPos)

	r.retire(1) // stale target: no regression
	assert.Equal(t, int64(2), r.readPos)

	r.retire(100) // beyond writePos: clamped to writePos
	assert.Equal(t, int64(4), r.readPos)
}

func TestRingBuffered(t *testing.T) {
	r := newRing(make([]float32, 8))
	r.append([]float32{1, 2, 3, 4, 5})

	assert.Equal(t, int64(5), r.buffered(0))
	assert.Equal(t, int64(2), r.buffered(3))
	assert.Equal(t, int64(0), r.buffered(5))
}

func TestRingResetAndZero(t *testing.T) {
	r := newRing(make([]float32, 4))
	r.append([]float32{1, 2, 3})

	r.zero()
	r.reset()

	require.Equal(t, int64(0), r.writePos)
	require.Equal(t, int64(0), r.readPos)
	for i := range r.buf {
		assert.Equal(t, float32(0), r.buf[i])
	}
}

func TestRingZeroCapacity(t *testing.T) {
	r := newRing(nil)

	// Appending into an unconfigured ring must not panic.
	assert.NotPanics(t, func() {
		r.append([]float32{1, 2, 3})
	})
	assert.Equal(t, int64(0), r.writePos)
}
