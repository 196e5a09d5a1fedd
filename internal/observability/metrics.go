package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Stream metrics
	activeStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "playout_active_streams",
		Help: "Number of active playback streams",
	})

	streamsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playout_streams_total",
		Help: "Total number of playback streams handled",
	})

	// Engine metrics. Some are incremented from the render context, which
	// is safe: prometheus counters are lock-free atomic adds.
	chunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playout_chunks_total",
		Help: "Total number of PCM chunks enqueued",
	})

	samplesEnqueuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playout_enqueued_samples_total",
		Help: "Total number of source-rate samples enqueued",
	})

	underrunSamplesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playout_underrun_samples_total",
		Help: "Output samples filled with silence because no source data was buffered",
	})

	configuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playout_configures_total",
		Help: "Total number of engine configure commands",
	})

	flushesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playout_flushes_total",
		Help: "Total number of engine flush (barge-in) commands",
	})

	droppedEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playout_dropped_events_total",
		Help: "Engine notifications dropped because the outbound queue was full",
	})

	bufferLevel = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "playout_buffer_level_samples",
		Help: "Buffered source-rate samples awaiting render, per stream",
	}, []string{"stream"})

	// Sink metrics
	renderQuantumDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "playout_render_quantum_seconds",
		Help:    "Wall time spent inside one render callback",
		Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playout_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})
)

// RecordStreamStart marks a new playback stream.
func RecordStreamStart() {
	activeStreams.Inc()
	streamsTotal.Inc()
}

// RecordStreamEnd marks the end of a playback stream.
func RecordStreamEnd(streamID string) {
	activeStreams.Dec()
	bufferLevel.DeleteLabelValues(streamID)
}

// RecordChunk records an enqueued chunk and its sample count.
func RecordChunk(samples int) {
	chunksTotal.Inc()
	samplesEnqueuedTotal.Add(float64(samples))
}

// RecordUnderrunSamples records output slots filled with silence.
func RecordUnderrunSamples(n int) {
	underrunSamplesTotal.Add(float64(n))
}

// RecordConfigure records an engine configure command.
func RecordConfigure() {
	configuresTotal.Inc()
}

// RecordFlush records an engine flush command.
func RecordFlush() {
	flushesTotal.Inc()
}

// RecordDroppedEvent records a notification dropped on queue overflow.
func RecordDroppedEvent() {
	droppedEventsTotal.Inc()
}

// SetBufferLevel publishes the buffered sample count for a stream.
func SetBufferLevel(streamID string, buffered int64) {
	bufferLevel.WithLabelValues(streamID).Set(float64(buffered))
}

// ObserveRenderQuantum records the wall time of one render callback.
func ObserveRenderQuantum(seconds float64) {
	renderQuantumDuration.Observe(seconds)
}

// RecordError records an error by type and component.
func RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}
