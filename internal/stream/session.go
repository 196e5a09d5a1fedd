// Package stream is the control producer: it owns the websocket session
// that feeds a playout engine, decoding network payloads into PCM chunks
// and issuing configure/flush on the client's behalf. Everything here runs
// in the non-real-time control context and is allowed to block and allocate.
package stream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/vocalio/playout/internal/audio"
	"github.com/vocalio/playout/internal/config"
	"github.com/vocalio/playout/internal/observability"
	"github.com/vocalio/playout/internal/playout"
	"github.com/vocalio/playout/internal/sink"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Upstream synthesis producers connect from inside the deployment;
		// origin enforcement belongs to the fronting proxy.
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
}

// Session holds the state of a single playback stream: one engine, one
// sink, one websocket.
type Session struct {
	id       string
	conn     *websocket.Conn
	engine   *playout.Engine
	out      sink.Sink
	encoding audio.Encoding
	logger   zerolog.Logger

	// writeMu serializes websocket writes between the read loop (error
	// replies) and the event pump.
	writeMu sync.Mutex
}

// Handler returns the HTTP handler for /streams/playback. Each accepted
// websocket gets its own engine and sink for the lifetime of the socket.
func Handler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger := observability.GetLogger()
			logger.Error().Err(err).Msg("websocket upgrade failed")
			return
		}

		s := &Session{
			id:       uuid.New().String(),
			conn:     conn,
			encoding: audio.EncodingS16LE,
		}
		s.logger = observability.WithStream(s.id)

		s.engine = playout.NewEngine(playout.Options{
			TargetRate:    cfg.TargetSampleRate,
			BufferSeconds: cfg.BufferSeconds,
			CommandQueue:  cfg.CommandQueueSize,
			EventQueue:    cfg.EventQueueSize,
		})

		s.out, err = sink.New(cfg.SinkBackend, sink.Config{
			SampleRate: cfg.TargetSampleRate,
			Quantum:    cfg.RenderQuantum,
		}, s.engine.Render)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create sink")
			conn.Close()
			return
		}

		s.run(r.Context())
	}
}

func (s *Session) run(ctx context.Context) {
	defer s.conn.Close()

	observability.RecordStreamStart()
	defer observability.RecordStreamEnd(s.id)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.out.Start(ctx); err != nil {
		s.logger.Error().Err(err).Str("backend", s.out.Name()).Msg("failed to start sink")
		s.sendError(err.Error())
		return
	}
	defer s.out.Stop()

	s.logger.Info().
		Str("backend", s.out.Name()).
		Int("target_rate", s.engine.TargetRate()).
		Msg("playback stream started")

	// Pump engine notifications back to the client for as long as the
	// session lives.
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		s.pumpEvents(ctx)
	}()

	s.readLoop()

	cancel()
	<-pumpDone
	s.logger.Info().Msg("playback stream closed")
}

// readLoop applies client control frames until the socket closes or the
// client sends stop.
func (s *Session) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		var msg ControlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError("malformed control message: " + err.Error())
			continue
		}

		switch msg.Event {
		case eventConfigure:
			s.handleConfigure(msg)
		case eventMedia:
			s.handleMedia(msg)
		case eventFlush:
			s.engine.Flush()
			s.logger.Debug().Msg("flush requested")
		case eventStop:
			return
		default:
			s.sendError("unknown event " + msg.Event)
		}
	}
}

func (s *Session) handleConfigure(msg ControlMessage) {
	if msg.Encoding != "" {
		enc := audio.Encoding(msg.Encoding)
		switch enc {
		case audio.EncodingS16LE, audio.EncodingF32LE:
			s.encoding = enc
		default:
			s.sendError("unsupported encoding " + msg.Encoding)
			return
		}
	}

	if err := s.engine.Configure(msg.SampleRate); err != nil {
		observability.RecordError("invalid_configure", "stream")
		s.sendError(err.Error())
		return
	}

	s.logger.Info().
		Int("source_rate", msg.SampleRate).
		Str("encoding", string(s.encoding)).
		Msg("stream configured")
}

func (s *Session) handleMedia(msg ControlMessage) {
	raw, err := base64.StdEncoding.DecodeString(msg.Payload)
	if err != nil {
		observability.RecordError("bad_payload", "stream")
		s.sendError("payload is not valid base64")
		return
	}

	samples, err := audio.Decode(s.encoding, raw)
	if err != nil {
		observability.RecordError("bad_payload", "stream")
		s.sendError(err.Error())
		return
	}

	if err := s.engine.Enqueue(samples); err != nil {
		s.sendError(err.Error())
	}
}

// pumpEvents relays engine notifications to the client and mirrors buffer
// levels into the metrics gauge.
func (s *Session) pumpEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-s.engine.Events():
			out := EngineMessage{Event: ev.Type.String()}
			if ev.Type == playout.EventBufferLevel {
				out.Buffered = ev.Buffered
				out.Capacity = ev.Capacity
				observability.SetBufferLevel(s.id, ev.Buffered)
			}
			if err := s.send(out); err != nil {
				return
			}
		}
	}
}

func (s *Session) send(msg EngineMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

func (s *Session) sendError(detail string) {
	if err := s.send(EngineMessage{Event: eventError, Message: detail}); err != nil {
		s.logger.Warn().Err(err).Msg("failed to send error frame")
	}
}
