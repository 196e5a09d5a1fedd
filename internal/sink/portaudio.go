//go:build portaudio

package sink

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudio renders through the default output device. The library invokes
// the stream callback from its real-time audio thread once per quantum.
type PortAudio struct {
	cfg    Config
	render RenderFunc
	stream *portaudio.Stream
}

// NewPortAudio creates a hardware sink on the default output device.
func NewPortAudio(cfg Config, render RenderFunc) (Sink, error) {
	return &PortAudio{cfg: cfg, render: render}, nil
}

func (p *PortAudio) Start(ctx context.Context) error {
	if p.stream != nil {
		return nil // already running
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(
		0, // no input channels
		1, // mono output
		float64(p.cfg.SampleRate),
		p.cfg.Quantum,
		func(out []float32) {
			p.render(out)
		},
	)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to open stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start stream: %w", err)
	}

	p.stream = stream
	return nil
}

func (p *PortAudio) Stop() error {
	if p.stream == nil {
		return nil
	}
	stream := p.stream
	p.stream = nil

	if err := stream.Stop(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	if err := stream.Close(); err != nil {
		portaudio.Terminate()
		return err
	}
	return portaudio.Terminate()
}

func (p *PortAudio) Name() string {
	return "portaudio"
}
