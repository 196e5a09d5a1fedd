// Package audio provides PCM payload decoding for the playout ingress.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encoding names a supported PCM wire format.
type Encoding string

const (
	// EncodingS16LE is 16-bit signed little-endian PCM.
	EncodingS16LE Encoding = "pcm_s16le"
	// EncodingF32LE is 32-bit IEEE float little-endian PCM.
	EncodingF32LE Encoding = "pcm_f32le"
)

// Decode converts a raw mono PCM payload into float32 samples in [-1, 1].
func Decode(enc Encoding, data []byte) ([]float32, error) {
	switch enc {
	case EncodingS16LE:
		return DecodeS16LE(data)
	case EncodingF32LE:
		return DecodeF32LE(data)
	default:
		return nil, fmt.Errorf("unsupported PCM encoding %q", enc)
	}
}

// DecodeS16LE converts little-endian int16 PCM to normalized float32.
func DecodeS16LE(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("PCM data length must be even (16-bit samples), got %d", len(data))
	}

	samples := make([]float32, len(data)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		samples[i] = float32(s) / 32768.0
	}
	return samples, nil
}

// DecodeF32LE reinterprets little-endian float32 PCM. NaN and Inf samples
// are squashed to silence so they can never reach the render path.
func DecodeF32LE(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("PCM data length must be a multiple of 4 (float32 samples), got %d", len(data))
	}

	samples := make([]float32, len(data)/4)
	for i := range samples {
		f := math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
		if f != f || f > math.MaxFloat32 || f < -math.MaxFloat32 {
			f = 0
		}
		samples[i] = f
	}
	return samples, nil
}
