package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// Structural and format errors raised by Decode. Callers are expected
// to catch them and degrade gracefully; analysis is enrichment, not a
// required feature.
var (
	// ErrMalformedHeader means the buffer is not a canonical RIFF/WAVE
	// container or is shorter than its declared data size.
	ErrMalformedHeader = errors.New("wav: malformed header")

	// ErrUnsupportedFormat means the container is valid but the sample
	// format is not 16-bit PCM.
	ErrUnsupportedFormat = errors.New("wav: unsupported format")
)

// Canonical WAV header layout: RIFF/WAVE with a 16-byte fmt chunk and
// the data chunk at a fixed 44-byte offset.
const (
	headerSize = 44

	formatOffset     = 20
	channelsOffset   = 22
	sampleRateOffset = 24
	bitDepthOffset   = 34
	dataSizeOffset   = 40

	pcmFormatTag = 1
	bitDepth     = 16

	// int16 normalization divisor for samples in [-1, 1)
	sampleScale = 32768.0
)

// AudioData represents decoded audio data
type AudioData struct {
	PCM        []float64     `json:"-"` // normalized mono samples
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"` // channel count of the source
	Duration   time.Duration `json:"duration"`
}

// Decode parses a canonical 16-bit PCM WAV byte buffer and downmixes it
// to mono by averaging all channels of each interleaved frame. The
// returned buffer is freshly allocated; the input is never retained.
func Decode(data []byte) (*AudioData, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the %d byte header", ErrMalformedHeader, len(data), headerSize)
	}

	for _, marker := range []struct {
		offset int
		want   string
	}{
		{0, "RIFF"},
		{8, "WAVE"},
		{12, "fmt "},
		{36, "data"},
	} {
		if got := string(data[marker.offset : marker.offset+4]); got != marker.want {
			return nil, fmt.Errorf("%w: missing %q marker at offset %d", ErrMalformedHeader, marker.want, marker.offset)
		}
	}

	formatTag := binary.LittleEndian.Uint16(data[formatOffset:])
	channels := int(binary.LittleEndian.Uint16(data[channelsOffset:]))
	sampleRate := int(binary.LittleEndian.Uint32(data[sampleRateOffset:]))
	depth := binary.LittleEndian.Uint16(data[bitDepthOffset:])
	dataSize := int(binary.LittleEndian.Uint32(data[dataSizeOffset:]))

	if formatTag != pcmFormatTag {
		return nil, fmt.Errorf("%w: format tag %d is not PCM", ErrUnsupportedFormat, formatTag)
	}
	if depth != bitDepth {
		return nil, fmt.Errorf("%w: %d-bit samples, only %d-bit supported", ErrUnsupportedFormat, depth, bitDepth)
	}
	if channels <= 0 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrMalformedHeader, channels, sampleRate)
	}
	if dataSize > len(data)-headerSize {
		return nil, fmt.Errorf("%w: declared %d data bytes, only %d present", ErrMalformedHeader, dataSize, len(data)-headerSize)
	}

	frameBytes := channels * (bitDepth / 8)
	numFrames := dataSize / frameBytes

	pcm := make([]float64, numFrames)
	for frame := 0; frame < numFrames; frame++ {
		base := headerSize + frame*frameBytes

		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			raw := int16(binary.LittleEndian.Uint16(data[base+ch*2:]))
			sum += float64(raw) / sampleScale
		}
		pcm[frame] = sum / float64(channels)
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   time.Duration(float64(numFrames) / float64(sampleRate) * float64(time.Second)),
	}, nil
}
