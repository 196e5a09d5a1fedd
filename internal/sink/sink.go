// Package sink drives the engine's render callback at the output device's
// fixed rate. A Sink owns the real-time clock; the engine only ever sees
// "fill this quantum now".
package sink

import (
	"context"
	"fmt"
)

// RenderFunc fills out with exactly len(out) samples. It must never block,
// allocate, or panic; silence is a valid fill.
type RenderFunc func(out []float32)

// Config describes the fixed-rate output the render callback feeds.
type Config struct {
	// SampleRate is the native rate of the output device in Hz.
	SampleRate int
	// Quantum is the number of mono samples requested per callback.
	Quantum int
}

// Sink invokes a RenderFunc once per quantum until stopped.
type Sink interface {
	// Start begins invoking the render callback. It returns once the
	// callback clock is running.
	Start(ctx context.Context) error

	// Stop halts the callback clock. Safe to call more than once.
	Stop() error

	// Name returns the backend name (e.g. "portaudio", "mock").
	Name() string
}

// New constructs the named sink backend.
func New(backend string, cfg Config, render RenderFunc) (Sink, error) {
	if cfg.SampleRate <= 0 || cfg.Quantum <= 0 {
		return nil, fmt.Errorf("sink: sample rate and quantum must be positive, got %d/%d", cfg.SampleRate, cfg.Quantum)
	}
	if render == nil {
		return nil, fmt.Errorf("sink: render callback is required")
	}
	switch backend {
	case "mock":
		return NewTicker(cfg, render), nil
	case "portaudio":
		return NewPortAudio(cfg, render)
	default:
		return nil, fmt.Errorf("sink: unknown backend %q", backend)
	}
}
