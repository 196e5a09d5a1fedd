package playout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResamplerPassthroughAtUnityRatio(t *testing.T) {
	rb := newRing(make([]float32, 16))
	rb.append([]float32{1, 2, 3, 4, 5, 6, 7, 8})

	var rs resampler
	rs.configure(48000, 48000)

	out := make([]float32, 8)
	underruns := rs.render(out, &rb)

	assert.Zero(t, underruns)
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8}, out)
	assert.Equal(t, float64(8), rs.pos)
}

func TestResamplerUpsamplesWithInterpolation(t *testing.T) {
	rb := newRing(make([]float32, 16))
	rb.append([]float32{0, 2, 4, 6})

	var rs resampler
	rs.configure(24000, 48000) // ratio 0.5: two outputs per source sample

	out := make([]float32, 7)
	underruns := rs.render(out, &rb)

	assert.Zero(t, underruns)
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5, 6}, out)
}

func TestResamplerDownsamples(t *testing.T) {
	rb := newRing(make([]float32, 16))
	rb.append([]float32{0, 1, 2, 3, 4, 5, 6, 7})

	var rs resampler
	rs.configure(48000, 24000) // ratio 2: every other source sample

	out := make([]float32, 4)
	underruns := rs.render(out, &rb)

	assert.Zero(t, underruns)
	assert.Equal(t, []float32{0, 2, 4, 6}, out)
}

func TestResamplerPhasePersistsAcrossCalls(t *testing.T) {
	rb := newRing(make([]float32, 32))
	rb.append([]float32{0, 3, 6, 9, 12})

	var rs resampler
	rs.configure(36000, 48000) // ratio 0.75

	first := make([]float32, 3)
	rs.render(first, &rb)
	second := make([]float32, 3)
	rs.render(second, &rb)

	// Continuous positions 0, 0.75, 1.5, 2.25, 3.0, 3.75 over the ramp of
	// slope 3: a phase reset between calls would restart at 0 instead.
	assert.Equal(t, []float32{0, 2.25, 4.5}, first)
	assert.Equal(t, []float32{6.75, 9, 11.25}, second)
}

func TestResamplerUnderrunHoldsPosition(t *testing.T) {
	rb := newRing(make([]float32, 16))
	rb.append([]float32{1, 2})

	var rs resampler
	rs.configure(48000, 48000)

	out := make([]float32, 5)
	underruns := rs.render(out, &rb)

	assert.Equal(t, 3, underruns)
	assert.Equal(t, []float32{1, 2, 0, 0, 0}, out)
	assert.Equal(t, float64(2), rs.pos)
}

func TestResamplerRetiresBehindPosition(t *testing.T) {
	rb := newRing(make([]float32, 16))
	rb.append(make([]float32, 12))

	var rs resampler
	rs.configure(48000, 48000)

	out := make([]float32, 10)
	rs.render(out, &rb)

	// Two-sample safety margin: the interpolation read of pos+1 must
	// still be resident on the next call.
	require.Equal(t, float64(10), rs.pos)
	assert.Equal(t, int64(8), rb.readPos)
}

func TestResamplerRecoversFromEviction(t *testing.T) {
	rb := newRing(make([]float32, 4))
	rb.append([]float32{1, 2, 3, 4, 5, 6, 7, 8}) // evicts 1..4

	var rs resampler
	rs.configure(48000, 48000) // pos 0, now behind readPos

	out := make([]float32, 4)
	underruns := rs.render(out, &rb)

	assert.Zero(t, underruns)
	assert.Equal(t, []float32{5, 6, 7, 8}, out)
}
