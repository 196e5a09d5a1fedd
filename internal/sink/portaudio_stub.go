//go:build !portaudio

package sink

import (
	"fmt"
)

// NewPortAudio is a stub when the binary is built without the portaudio
// tag (the cgo PortAudio bindings need the native library installed).
func NewPortAudio(cfg Config, render RenderFunc) (Sink, error) {
	return nil, fmt.Errorf("sink: portaudio support not enabled (build with -tags portaudio)")
}
