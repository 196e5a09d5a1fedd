package sink

import (
	"context"
	"sync"
	"time"

	"github.com/vocalio/playout/internal/observability"
)

// Ticker is a clock-driven sink for headless runs and tests: it calls the
// render function once per quantum period and discards the output.
type Ticker struct {
	cfg    Config
	render RenderFunc
	out    []float32

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTicker creates a mock sink paced by a wall-clock ticker.
func NewTicker(cfg Config, render RenderFunc) *Ticker {
	return &Ticker{
		cfg:    cfg,
		render: render,
		out:    make([]float32, cfg.Quantum),
	}
}

func (t *Ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return nil // already running
	}

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})

	period := time.Duration(float64(t.cfg.Quantum) / float64(t.cfg.SampleRate) * float64(time.Second))
	go t.loop(ctx, period)
	return nil
}

func (t *Ticker) loop(ctx context.Context, period time.Duration) {
	defer close(t.done)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			start := time.Now()
			t.render(t.out)
			observability.ObserveRenderQuantum(time.Since(start).Seconds())
		}
	}
}

func (t *Ticker) Stop() error {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return nil
}

func (t *Ticker) Name() string {
	return "mock"
}
