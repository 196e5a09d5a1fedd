package playout

// ring is a fixed-capacity circular buffer of source-rate samples addressed
// by monotonically increasing positions. The render context is the only
// writer of every field; positions are never reset except by flush/configure.
//
// Invariant: 0 <= readPos <= writePos and writePos-readPos <= capacity.
type ring struct {
	buf      []float32
	capacity int64
	writePos int64
	readPos  int64
}

// newRing wraps a pre-allocated sample buffer. The buffer is allocated by
// the control side so the render path never touches the heap.
func newRing(buf []float32) ring {
	return ring{buf: buf, capacity: int64(len(buf))}
}

// append copies samples into the ring at writePos. When the render side has
// fallen more than a full buffer behind, the oldest unconsumed samples are
// evicted by advancing readPos so the write always succeeds. Returns the
// number of evicted samples.
func (r *ring) append(samples []float32) int64 {
	if r.capacity == 0 {
		return 0
	}
	var evicted int64
	for _, s := range samples {
		if r.writePos+1-r.readPos > r.capacity {
			r.readPos = r.writePos + 1 - r.capacity
			evicted++
		}
		r.buf[r.writePos%r.capacity] = s
		r.writePos++
	}
	return evicted
}

// at returns the sample at an absolute position. The caller must ensure
// readPos <= pos < writePos.
func (r *ring) at(pos int64) float32 {
	return r.buf[pos%r.capacity]
}

// retire advances readPos up to (but never beyond) upTo, releasing space
// for future appends. Negative or stale targets are ignored.
func (r *ring) retire(upTo int64) {
	if upTo > r.writePos {
		upTo = r.writePos
	}
	if upTo > r.readPos {
		r.readPos = upTo
	}
}

// buffered returns the number of appended samples not yet consumed past
// the given source position.
func (r *ring) buffered(srcPos int64) int64 {
	return r.writePos - srcPos
}

// reset rewinds both positions to zero without touching contents.
func (r *ring) reset() {
	r.writePos = 0
	r.readPos = 0
}

// zero clears all stored samples. Used on flush so a racing stale read can
// only ever observe silence.
func (r *ring) zero() {
	for i := range r.buf {
		r.buf[i] = 0
	}
}
