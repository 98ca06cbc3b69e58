package host

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/signal"
	"github.com/cwbudde/algo-delay/plugin"
)

// ErrInvalidGeometry is returned for non-positive channel or block sizes.
var ErrInvalidGeometry = errors.New("host: channels and block size must be > 0")

const bytesPerSample = 4

// Renderer pulls blocks from a Source, runs them through a Processor and
// serves the result as interleaved little-endian float32 bytes. The
// processor must already be prepared for the renderer's channel count.
//
// Read never allocates; all buffers are sized by NewRenderer.
type Renderer struct {
	proc     plugin.Processor
	src      signal.Source
	channels int

	mono    []float64
	bufs    [][]float32
	pending []byte
	off     int
}

// NewRenderer creates a renderer producing blockSize frames per pull. The
// source signal is copied to every channel.
func NewRenderer(proc plugin.Processor, src signal.Source, channels, blockSize int) (*Renderer, error) {
	if channels <= 0 || blockSize <= 0 {
		return nil, ErrInvalidGeometry
	}

	r := &Renderer{
		proc:     proc,
		src:      src,
		channels: channels,
		mono:     make([]float64, blockSize),
		bufs:     make([][]float32, channels),
		pending:  make([]byte, blockSize*channels*bytesPerSample),
	}
	for ch := range r.bufs {
		r.bufs[ch] = make([]float32, blockSize)
	}
	r.off = len(r.pending)
	return r, nil
}

// Channels returns the number of interleaved channels.
func (r *Renderer) Channels() int { return r.channels }

// BlockSize returns the frames rendered per pull.
func (r *Renderer) BlockSize() int { return len(r.mono) }

// Render fills bufs from the source and processes them in place. Each
// channel must be at most BlockSize long.
func (r *Renderer) Render(bufs [][]float32) {
	if len(bufs) == 0 {
		return
	}

	n := len(bufs[0])
	mono := r.mono[:n]
	r.src.Fill(mono)
	for _, buf := range bufs {
		core.Narrow(buf, mono)
	}
	r.proc.Process(bufs)
}

// Read implements io.Reader. It always fills p completely.
func (r *Renderer) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.off == len(r.pending) {
			r.renderBlock()
		}
		c := copy(p[n:], r.pending[r.off:])
		r.off += c
		n += c
	}
	return n, nil
}

func (r *Renderer) renderBlock() {
	r.Render(r.bufs)

	i := 0
	for frame := range r.mono {
		for ch := range r.bufs {
			binary.LittleEndian.PutUint32(r.pending[i:], math.Float32bits(r.bufs[ch][frame]))
			i += bytesPerSample
		}
	}
	r.off = 0
}
