// Package playout implements the real-time playback engine that turns an
// intermittent stream of synthesized-speech PCM chunks into continuous,
// glitch-free output at the sink's fixed sample rate.
//
// Two execution contexts cooperate: a non-real-time control context that may
// block and allocate (Enqueue, Configure, Flush), and a real-time render
// context (Render) invoked once per quantum by the audio clock. All engine
// state is owned exclusively by the render context; the control side only
// posts commands onto a buffered channel, which the render context drains at
// the top of each quantum. That single-producer/single-consumer discipline
// replaces locks, and no render-path operation blocks, allocates, or panics
// outward.
package playout

import (
	"errors"
	"math"
	"sync/atomic"

	"github.com/vocalio/playout/internal/observability"
)

var (
	// ErrNotConfigured is returned when a chunk is enqueued before the
	// source format is known. Rendering while unconfigured is not an
	// error; the engine simply emits silence.
	ErrNotConfigured = errors.New("playout: engine not configured")

	// ErrInvalidSampleRate rejects a zero or negative source rate at the
	// control boundary, before any engine state is touched.
	ErrInvalidSampleRate = errors.New("playout: source sample rate must be positive")
)

// Options configures a per-stream engine instance.
type Options struct {
	// TargetRate is the native sample rate of the render sink.
	TargetRate int
	// BufferSeconds sizes the ring buffer in seconds of source audio.
	// Sized generously so normal operation never evicts.
	BufferSeconds float64
	// CommandQueue is the control→render queue depth. Enqueue blocks
	// when it is full; the control context is allowed to block.
	CommandQueue int
	// EventQueue is the render→control queue depth. The render context
	// never blocks on it; overflowing events are dropped.
	EventQueue int
}

func (o *Options) withDefaults() {
	if o.TargetRate <= 0 {
		o.TargetRate = 48000
	}
	if o.BufferSeconds <= 0 {
		o.BufferSeconds = 30
	}
	if o.CommandQueue <= 0 {
		o.CommandQueue = 256
	}
	if o.EventQueue <= 0 {
		o.EventQueue = 64
	}
}

// Engine owns one logical audio stream: a ring buffer of source-rate
// samples, a phase-continuous resampler, and the drain/telemetry flags.
type Engine struct {
	targetRate    int
	bufferSeconds float64

	commands chan command
	events   chan Event

	// Control-side mirror of the configured state, maintained by the
	// single control producer so unplayable enqueues fail fast.
	ctrlConfigured atomic.Bool

	// Everything below is written only by the render context.
	rb         ring
	rs         resampler
	sourceRate int
	configured bool
	hasHadData bool
	drainSent  bool
	levelEvery int64 // telemetry cadence: floor(sourceRate/10) source samples
}

// NewEngine creates an engine for one playback session. The engine starts
// unconfigured and renders silence until Configure supplies the source rate.
func NewEngine(opts Options) *Engine {
	opts.withDefaults()
	return &Engine{
		targetRate:    opts.TargetRate,
		bufferSeconds: opts.BufferSeconds,
		commands:      make(chan command, opts.CommandQueue),
		events:        make(chan Event, opts.EventQueue),
	}
}

// Enqueue transfers ownership of a chunk of source-rate samples to the
// engine. Chunks render in FIFO order; samples within a chunk render in
// original order. Control context only.
func (e *Engine) Enqueue(samples []float32) error {
	if !e.ctrlConfigured.Load() {
		return ErrNotConfigured
	}
	if len(samples) == 0 {
		return nil
	}
	e.commands <- command{typ: cmdChunk, samples: samples}
	observability.RecordChunk(len(samples))
	return nil
}

// Configure supplies the source sample rate for the next playback item.
// The replacement ring storage is allocated here, on the control side, and
// handed to the render context ready to use; all positions reset to zero.
// Control context only.
func (e *Engine) Configure(sourceRate int) error {
	if sourceRate <= 0 {
		return ErrInvalidSampleRate
	}
	capacity := int(math.Ceil(float64(sourceRate) * e.bufferSeconds))
	e.commands <- command{
		typ:        cmdConfigure,
		sourceRate: sourceRate,
		buf:        make([]float32, capacity),
	}
	e.ctrlConfigured.Store(true)
	observability.RecordConfigure()
	return nil
}

// Flush discards all buffered audio and resets the resampler phase. It is
// the barge-in primitive: the reset is applied before any sample of the
// next render quantum, so the very next callback emits only silence.
// Idempotent. Control context only.
func (e *Engine) Flush() {
	e.commands <- command{typ: cmdFlush}
	observability.RecordFlush()
}

// Events exposes the engine→control notification queue: configure/flush
// acks, the edge-triggered drain, and periodic buffer-level telemetry.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// TargetRate returns the sink sample rate this engine renders at.
func (e *Engine) TargetRate() int {
	return e.targetRate
}

// Render produces exactly len(out) target-rate samples from whatever source
// data is currently buffered. Every slot is filled; silence is a valid
// value. Pending control commands are applied first, atomically with
// respect to this quantum. Render context only.
func (e *Engine) Render(out []float32) {
	e.applyPending()

	if !e.configured {
		for i := range out {
			out[i] = 0
		}
		return
	}

	underruns := e.rs.render(out, &e.rb)
	if underruns > 0 {
		observability.RecordUnderrunSamples(underruns)
	}
	// Keep floor(srcPos) <= writePos after the final buffered sample has
	// been consumed with a ratio > 1 step.
	if e.rs.pos > float64(e.rb.writePos) {
		e.rs.pos = float64(e.rb.writePos)
	}

	e.report(len(out))
}

func (e *Engine) applyPending() {
	for {
		select {
		case cmd := <-e.commands:
			e.apply(cmd)
		default:
			return
		}
	}
}

func (e *Engine) apply(cmd command) {
	switch cmd.typ {
	case cmdChunk:
		if e.rb.capacity == 0 {
			return
		}
		evicted := e.rb.append(cmd.samples)
		if evicted > 0 && e.rs.pos < float64(e.rb.readPos) {
			e.rs.pos = float64(e.rb.readPos)
		}
		e.hasHadData = true
		e.drainSent = false

	case cmdConfigure:
		e.rb = newRing(cmd.buf)
		e.rs.configure(cmd.sourceRate, e.targetRate)
		e.sourceRate = cmd.sourceRate
		e.levelEvery = int64(cmd.sourceRate / 10)
		e.configured = true
		e.hasHadData = false
		e.drainSent = false
		e.emit(Event{Type: EventConfigured})

	case cmdFlush:
		// Zeroing the contents, not just the positions, guards against
		// a stale read racing the reset ever hearing old audio.
		e.rb.zero()
		e.rb.reset()
		e.rs.reset()
		e.hasHadData = false
		e.drainSent = false
		e.emit(Event{Type: EventFlushed})
	}
}

// report runs after each quantum: the edge-triggered drain notification and
// the roughly-every-100ms-of-source-time buffer-level telemetry.
func (e *Engine) report(quantum int) {
	buffered := e.rb.buffered(int64(e.rs.pos))
	if e.hasHadData && buffered <= 0 && !e.drainSent {
		e.drainSent = true
		e.emit(Event{Type: EventDrain})
	}
	if e.levelEvery > 0 && e.rb.writePos%e.levelEvery < int64(quantum) {
		e.emit(Event{Type: EventBufferLevel, Buffered: buffered, Capacity: e.rb.capacity})
	}
}

// emit is fire-and-forget: the render context never waits on the control
// side, so a full event queue drops the notification rather than block.
func (e *Engine) emit(ev Event) {
	select {
	case e.events <- ev:
	default:
		observability.RecordDroppedEvent()
	}
}
