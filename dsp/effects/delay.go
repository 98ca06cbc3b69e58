package effects

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/delay"
)

const (
	defaultDelayTime = 0.5
	defaultMix       = 0.5
	defaultFeedback  = 0.0

	// MaxDelaySeconds is the fixed delay ceiling; every line holds this much
	// audio at the configured sample rate.
	MaxDelaySeconds = 2.0

	tailFloorDB = -60.0
)

// Configuration errors returned by Delay.Configure.
var (
	ErrInvalidSampleRate = errors.New("delay: sample rate must be finite and > 0")
	ErrInvalidBlockSize  = errors.New("delay: max block size must be > 0")
	ErrInvalidChannels   = errors.New("delay: channel count must be >= 0")
)

// State is the lifecycle stage of a Delay.
type State int

const (
	StateUnconfigured State = iota
	StateConfigured
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "unconfigured"
	case StateConfigured:
		return "configured"
	case StateReleased:
		return "released"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Delay at construction.
type Option func(*Delay)

// WithControls sets the initial control values.
func WithControls(c Controls) Option {
	return func(d *Delay) {
		d.controls.store(c)
	}
}

// Delay is a multichannel feedback delay with dry/wet mix.
//
// Configure and Release must not run concurrently with Process; the host is
// expected to stop its audio callback first. The Set* methods may be called
// from any goroutine at any time.
type Delay struct {
	sampleRate      float64
	maxBlockSize    int
	maxDelaySamples int

	lines    []*delay.Line
	controls controlStore
	state    State
}

// NewDelay creates an unconfigured delay with default controls.
func NewDelay(opts ...Option) *Delay {
	d := &Delay{}
	d.controls.store(DefaultControls())
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Configure prepares the delay for a session: one zeroed line per channel,
// each MaxDelaySeconds long. Calling it again discards any delay tail.
func (d *Delay) Configure(sampleRate float64, maxBlockSize, numChannels int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}
	if maxBlockSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, maxBlockSize)
	}
	if numChannels < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, numChannels)
	}

	maxDelaySamples := int(math.Round(sampleRate * MaxDelaySeconds))
	if maxDelaySamples < 1 {
		return fmt.Errorf("%w: %f yields no delay storage", ErrInvalidSampleRate, sampleRate)
	}

	lines := make([]*delay.Line, numChannels)
	for ch := range lines {
		if ch < len(d.lines) && d.lines[ch].Len() == maxDelaySamples {
			d.lines[ch].Clear()
			lines[ch] = d.lines[ch]
			continue
		}
		line, err := delay.New(maxDelaySamples)
		if err != nil {
			return err
		}
		lines[ch] = line
	}

	d.sampleRate = sampleRate
	d.maxBlockSize = maxBlockSize
	d.maxDelaySamples = maxDelaySamples
	d.lines = lines
	d.state = StateConfigured
	return nil
}

// Release drops all delay lines. Process is a passthrough until the next
// Configure.
func (d *Delay) Release() {
	d.lines = nil
	d.state = StateReleased
}

// SetControls updates all three controls. Values are clamped to [0, 1].
func (d *Delay) SetControls(delayTime, mix, feedback float64) {
	d.controls.store(Controls{DelayTime: delayTime, Mix: mix, Feedback: feedback})
}

// SetDelayTime sets the delay time as a fraction of MaxDelaySeconds.
func (d *Delay) SetDelayTime(v float64) {
	d.controls.delayTime.Store(core.ClampUnit(v))
}

// SetMix sets the wet amount.
func (d *Delay) SetMix(v float64) {
	d.controls.mix.Store(core.ClampUnit(v))
}

// SetFeedback sets the regeneration gain.
func (d *Delay) SetFeedback(v float64) {
	d.controls.feedback.Store(core.ClampUnit(v))
}

// Controls returns the current control values.
func (d *Delay) Controls() Controls {
	return d.controls.load()
}

// DelaySamples returns the delay in samples for the current controls.
func (d *Delay) DelaySamples() int {
	return delaySamples(d.controls.delayTime.Load(), d.maxDelaySamples)
}

// delaySamples maps a normalized delay time onto [1, maxDelaySamples].
// Zero delay is never returned: reading the slot about to be written would
// alias the write of the same time step.
func delaySamples(delayTime float64, maxDelaySamples int) int {
	n := int(math.Round(delayTime * float64(maxDelaySamples)))
	if n < 1 {
		return 1
	}
	if maxDelaySamples > 0 && n > maxDelaySamples {
		return maxDelaySamples
	}
	return n
}

// Process applies the delay in place. buffers holds one slice per channel,
// all of the same length. Channels without a configured line are left
// untouched; an unconfigured or released delay passes audio through.
func (d *Delay) Process(buffers [][]float64) {
	n := len(buffers)
	if len(d.lines) < n {
		n = len(d.lines)
	}
	if n == 0 {
		return
	}

	c := d.controls.load()
	offset := delaySamples(c.DelayTime, d.maxDelaySamples)
	dry := 1 - c.Mix

	for ch := 0; ch < n; ch++ {
		line := d.lines[ch]
		buf := buffers[ch]
		for i, in := range buf {
			delayed := line.Read(offset)
			line.Write(in + core.FlushDenormals(delayed*c.Feedback))
			buf[i] = in*dry + delayed*c.Mix
		}
	}
}

// TailSamples estimates how long the echo train stays above -60 dB after the
// input falls silent. Unconfigured delays report 0.
func (d *Delay) TailSamples() int {
	if d.state != StateConfigured {
		return 0
	}

	c := d.controls.load()
	if c.Mix == 0 {
		return 0
	}

	offset := delaySamples(c.DelayTime, d.maxDelaySamples)
	if c.Feedback == 0 {
		return offset
	}
	if c.Feedback >= 1 {
		return math.MaxInt32
	}

	repeats := math.Ceil(tailFloorDB / core.LinearToDB(c.Feedback))
	tail := (repeats + 1) * float64(offset)
	if tail > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(tail)
}

// SampleRate returns the configured sample rate in Hz.
func (d *Delay) SampleRate() float64 { return d.sampleRate }

// MaxBlockSize returns the configured maximum block size.
func (d *Delay) MaxBlockSize() int { return d.maxBlockSize }

// MaxDelaySamples returns the per-line capacity in samples.
func (d *Delay) MaxDelaySamples() int { return d.maxDelaySamples }

// NumChannels returns the number of configured delay lines.
func (d *Delay) NumChannels() int { return len(d.lines) }

// State returns the lifecycle stage.
func (d *Delay) State() State { return d.state }
