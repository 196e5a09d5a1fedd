package stream

// ControlMessage is a client→server frame on the playback stream socket.
// The wire shape mirrors provider media-stream protocols: a small JSON
// envelope with a base64 PCM payload for media frames.
type ControlMessage struct {
	Event string `json:"event"` // configure, media, flush, stop

	// configure
	SampleRate int    `json:"sampleRate,omitempty"`
	Encoding   string `json:"encoding,omitempty"` // pcm_s16le (default), pcm_f32le

	// media
	Payload string `json:"payload,omitempty"` // base64-encoded PCM at the source rate
}

// EngineMessage is a server→client frame relaying an engine notification.
type EngineMessage struct {
	Event    string `json:"event"` // configured, flushed, drain, buffer_level, error
	Buffered int64  `json:"buffered,omitempty"`
	Capacity int64  `json:"capacity,omitempty"`
	Message  string `json:"message,omitempty"`
}

const (
	eventConfigure = "configure"
	eventMedia     = "media"
	eventFlush     = "flush"
	eventStop      = "stop"

	eventError = "error"
)
