package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the playout engine service
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Sink configuration: the fixed-rate hardware (or mock) output the
	// render callback fills.
	TargetSampleRate int    `envconfig:"PLAYOUT_TARGET_SAMPLE_RATE" default:"48000"` // Native sample rate of the sink
	RenderQuantum    int    `envconfig:"PLAYOUT_RENDER_QUANTUM" default:"128"`       // Output samples per render callback
	SinkBackend      string `envconfig:"PLAYOUT_SINK_BACKEND" default:"mock"`        // mock, portaudio

	// Engine configuration
	BufferSeconds    float64 `envconfig:"PLAYOUT_BUFFER_SECONDS" default:"30"`      // Ring buffer size in seconds of source audio
	CommandQueueSize int     `envconfig:"PLAYOUT_COMMAND_QUEUE_SIZE" default:"256"` // Control->render queue depth
	EventQueueSize   int     `envconfig:"PLAYOUT_EVENT_QUEUE_SIZE" default:"64"`    // Render->control queue depth

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.TargetSampleRate <= 0 {
		return fmt.Errorf("PLAYOUT_TARGET_SAMPLE_RATE must be positive, got %d", c.TargetSampleRate)
	}
	if c.RenderQuantum <= 0 {
		return fmt.Errorf("PLAYOUT_RENDER_QUANTUM must be positive, got %d", c.RenderQuantum)
	}
	if c.BufferSeconds <= 0 {
		return fmt.Errorf("PLAYOUT_BUFFER_SECONDS must be positive, got %g", c.BufferSeconds)
	}
	switch c.SinkBackend {
	case "mock", "portaudio":
	default:
		return fmt.Errorf("PLAYOUT_SINK_BACKEND must be one of mock, portaudio; got %q", c.SinkBackend)
	}
	return nil
}
