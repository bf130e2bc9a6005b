// Package audio connects a block renderer to the sound card through oto.
package audio

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// Channels is the number of interleaved output channels.
	Channels = 2
	// bytesPerSample is the size of one FormatFloat32LE sample.
	bytesPerSample = 4
)

// Renderer fills out with interleaved stereo float32 frames.
type Renderer interface {
	Render(out []float32)
}

// Stream adapts a Renderer to the io.Reader oto pulls from. It always
// renders whole blocks of blockSize frames and keeps the bytes the reader
// did not take for the next call. After construction Read does not
// allocate.
type Stream struct {
	r       Renderer
	block   []float32
	encoded []byte
	pending []byte
}

// NewStream returns a stream rendering blockSize frames at a time.
func NewStream(r Renderer, blockSize int) (*Stream, error) {
	if r == nil {
		return nil, fmt.Errorf("audio: nil renderer")
	}

	if blockSize <= 0 {
		return nil, fmt.Errorf("audio: block size must be > 0: %d", blockSize)
	}

	return &Stream{
		r:       r,
		block:   make([]float32, blockSize*Channels),
		encoded: make([]byte, blockSize*Channels*bytesPerSample),
	}, nil
}

// BlockBytes returns the encoded size of one block.
func (s *Stream) BlockBytes() int { return len(s.encoded) }

// Read fills p completely with rendered audio.
func (s *Stream) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(s.pending) == 0 {
			s.renderBlock()
		}

		c := copy(p[n:], s.pending)
		s.pending = s.pending[c:]
		n += c
	}

	return n, nil
}

func (s *Stream) renderBlock() {
	s.r.Render(s.block)

	for i, v := range s.block {
		binary.LittleEndian.PutUint32(s.encoded[i*bytesPerSample:], math.Float32bits(v))
	}

	s.pending = s.encoded
}
