package delay

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// Errors returned when sizing a Line.
var (
	ErrInvalidCapacity = errors.New("delay: capacity must be > 0")
	ErrInvalidWritePos = errors.New("delay: write position out of range")
)

// Line is a fixed-capacity circular sample buffer.
//
// writePos always names the slot overwritten by the next Write; reads are
// expressed as an offset behind it, so Read(1) returns the most recent sample
// and Read(Len()-1) the oldest one still held.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a zero-filled delay line of fixed capacity.
func New(capacity int) (*Line, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Line{buffer: make([]float64, capacity)}, nil
}

// Len returns the capacity in samples.
func (d *Line) Len() int {
	return len(d.buffer)
}

// WritePos returns the index the next Write will store to.
func (d *Line) WritePos() int {
	return d.writePos
}

// Write stores sample at the write cursor and advances it.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read returns the sample written offset writes ago.
//
// Offsets beyond the capacity saturate at Len()-1 (the longest available
// delay); negative offsets are treated as 0.
func (d *Line) Read(offset int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	if offset >= size {
		offset = size - 1
	} else if offset < 0 {
		offset = 0
	}
	readPos := d.writePos - offset
	if readPos < 0 {
		readPos += size
	}
	return d.buffer[readPos]
}

// Reset replaces the contents with capacity zeros and moves the write cursor
// to writePos. The backing array is reused when it is large enough.
// Intended for (re)configuration, not for the processing loop.
func (d *Line) Reset(capacity, writePos int) error {
	if capacity <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	if writePos < 0 || writePos >= capacity {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidWritePos, writePos, capacity)
	}
	d.buffer = core.EnsureLen(d.buffer, capacity)
	core.Zero(d.buffer)
	d.writePos = writePos
	return nil
}

// Clear zeroes the stored samples and rewinds the write cursor without
// reallocating.
func (d *Line) Clear() {
	core.Zero(d.buffer)
	d.writePos = 0
}
