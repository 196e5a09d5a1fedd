package playout

// retireMargin keeps two already-consumed samples resident so the pending
// interpolation read of srcPos+1 is never retired out from under the next
// render call.
const retireMargin = 2

// resampler converts source-rate samples from the ring into target-rate
// output via linear interpolation. The fractional source position persists
// across render calls; it resets only on flush or configure. A per-chunk
// resampler that rewinds its phase at chunk boundaries produces an audible
// discontinuity at every join, which is exactly what this state avoids.
type resampler struct {
	pos   float64 // fractional position in the source sample domain
	ratio float64 // sourceRate / targetRate; 1.0 is sample-accurate passthrough
}

func (rs *resampler) configure(sourceRate, targetRate int) {
	rs.ratio = float64(sourceRate) / float64(targetRate)
	rs.pos = 0
}

func (rs *resampler) reset() {
	rs.pos = 0
}

// render fills every slot of out, interpolating between the two buffered
// samples straddling the fractional position. A slot whose straddling
// samples have not arrived yet is an underrun: it is filled with silence
// and the position does not advance, so playback catches up once data
// resumes instead of skipping ahead. Returns the underrun slot count.
func (rs *resampler) render(out []float32, rb *ring) int {
	// Eviction on overflow may have advanced readPos past us.
	if rs.pos < float64(rb.readPos) {
		rs.pos = float64(rb.readPos)
	}

	underruns := 0
	for i := range out {
		idx0 := int64(rs.pos)
		frac := rs.pos - float64(idx0)

		switch {
		case idx0+1 < rb.writePos:
			s0 := float64(rb.at(idx0))
			s1 := float64(rb.at(idx0 + 1))
			out[i] = float32(s0*(1-frac) + s1*frac)
			rs.pos += rs.ratio
		case frac == 0 && idx0 < rb.writePos:
			// On an exact sample boundary the lookahead sample is not
			// needed, so the final buffered sample is still renderable.
			out[i] = rb.at(idx0)
			rs.pos += rs.ratio
		default:
			out[i] = 0
			underruns++
		}
	}

	target := int64(rs.pos) - retireMargin
	if target < 0 {
		target = 0
	}
	rb.retire(target)

	return underruns
}
