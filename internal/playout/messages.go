package playout

// commandType identifies control-to-engine commands.
type commandType int

const (
	cmdChunk commandType = iota
	cmdConfigure
	cmdFlush
)

// command is the unit of the control→render queue. Commands are applied by
// the render context at the top of each render call, in arrival order, so
// a reset is always atomic with respect to a quantum.
type command struct {
	typ commandType

	// cmdChunk
	samples []float32

	// cmdConfigure: the replacement ring storage is allocated on the
	// control side and handed over ready to use.
	sourceRate int
	buf        []float32
}

// EventType identifies engine-to-control notifications.
type EventType int

const (
	// EventConfigured acknowledges a configure command.
	EventConfigured EventType = iota
	// EventFlushed acknowledges a flush command.
	EventFlushed
	// EventDrain signals that every appended sample has been rendered.
	// Edge-triggered: emitted once per depletion, re-armed by enqueue.
	EventDrain
	// EventBufferLevel is periodic telemetry for upstream backpressure.
	EventBufferLevel
)

// Event is a fire-and-forget notification from the render context. The
// render side never waits for delivery; events are dropped if the outbound
// queue is full.
type Event struct {
	Type     EventType
	Buffered int64
	Capacity int64
}

func (t EventType) String() string {
	switch t {
	case EventConfigured:
		return "configured"
	case EventFlushed:
		return "flushed"
	case EventDrain:
		return "drain"
	case EventBufferLevel:
		return "buffer_level"
	default:
		return "unknown"
	}
}
