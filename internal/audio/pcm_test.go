package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestDecodeS16LE(t *testing.T) {
	data := make([]byte, 8)
	for i, v := range []int16{0, 16384, -16384, -32768} {
		binary.LittleEndian.PutUint16(data[2*i:2*i+2], uint16(v))
	}

	samples, err := DecodeS16LE(data)
	if err != nil {
		t.Fatalf("DecodeS16LE() failed: %v", err)
	}

	want := []float32{0, 0.5, -0.5, -1}
	if len(samples) != len(want) {
		t.Fatalf("Expected %d samples, got %d", len(want), len(samples))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("Sample %d: expected %v, got %v", i, want[i], samples[i])
		}
	}
}

func TestDecodeS16LE_OddLength(t *testing.T) {
	_, err := DecodeS16LE([]byte{1, 2, 3})
	if err == nil {
		t.Error("Expected error for odd-length int16 payload")
	}
}

func TestDecodeF32LE(t *testing.T) {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], math.Float32bits(0.25))
	binary.LittleEndian.PutUint32(data[4:8], math.Float32bits(-1))
	binary.LittleEndian.PutUint32(data[8:12], math.Float32bits(0))

	samples, err := DecodeF32LE(data)
	if err != nil {
		t.Fatalf("DecodeF32LE() failed: %v", err)
	}

	want := []float32{0.25, -1, 0}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("Sample %d: expected %v, got %v", i, want[i], samples[i])
		}
	}
}

func TestDecodeF32LE_BadLength(t *testing.T) {
	_, err := DecodeF32LE([]byte{1, 2, 3, 4, 5})
	if err == nil {
		t.Error("Expected error for payload not a multiple of 4")
	}
}

func TestDecodeF32LE_SquashesNaNAndInf(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint32(data[0:4], math.Float32bits(float32(math.NaN())))
	binary.LittleEndian.PutUint32(data[4:8], math.Float32bits(float32(math.Inf(1))))

	samples, err := DecodeF32LE(data)
	if err != nil {
		t.Fatalf("DecodeF32LE() failed: %v", err)
	}

	for i, s := range samples {
		if s != 0 {
			t.Errorf("Sample %d: expected NaN/Inf squashed to 0, got %v", i, s)
		}
	}
}

func TestDecode_UnsupportedEncoding(t *testing.T) {
	_, err := Decode(Encoding("pcm_u8"), []byte{1, 2})
	if err == nil {
		t.Error("Expected error for unsupported encoding")
	}
}

func TestDecode_Dispatch(t *testing.T) {
	data := make([]byte, 2)
	binary.LittleEndian.PutUint16(data, uint16(int16(16384)))

	samples, err := Decode(EncodingS16LE, data)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(samples) != 1 || samples[0] != 0.5 {
		t.Errorf("Expected [0.5], got %v", samples)
	}
}
