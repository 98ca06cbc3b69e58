package plugin

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/effects"
)

// ErrUnsupportedLayout is returned by Prepare for layouts other than mono
// or stereo with matching input and output counts.
var ErrUnsupportedLayout = errors.New("plugin: unsupported channel layout")

// Plugin identity reported through Info.
const (
	Name     = "Feedback Delay"
	Vendor   = "algo-delay"
	Version  = "0.1.0"
	Category = "Fx|Delay"
)

var _ Processor = (*DelayProcessor)(nil)

// DelayProcessor adapts effects.Delay to a float32 host.
//
// Host buffers are widened into float64 scratch that Prepare sizes to the
// maximum block, so Process never allocates. Blocks longer than the
// announced maximum are processed in chunks.
type DelayProcessor struct {
	params *Params
	engine *effects.Delay

	layout       Layout
	maxBlockSize int
	scratch      [][]float64
	views        [][]float64
	prepared     bool
}

// NewDelayProcessor returns an unprepared processor with default parameters.
func NewDelayProcessor() *DelayProcessor {
	params := NewParams()
	return &DelayProcessor{
		params: params,
		engine: effects.NewDelay(effects.WithControls(params.Snapshot())),
	}
}

// Params returns the host-facing parameters. They may be set from any
// goroutine.
func (p *DelayProcessor) Params() *Params { return p.params }

// Layout returns the prepared channel layout.
func (p *DelayProcessor) Layout() Layout { return p.layout }

// Prepare configures the engine and sizes scratch buffers. Calling it again
// reconfigures and discards any echo tail.
func (p *DelayProcessor) Prepare(sampleRate float64, maxBlockSize int, layout Layout) error {
	if !layout.Supported() {
		return fmt.Errorf("%w: %s", ErrUnsupportedLayout, layout)
	}
	if err := p.engine.Configure(sampleRate, maxBlockSize, layout.Inputs); err != nil {
		return fmt.Errorf("prepare: %w", err)
	}

	p.layout = layout
	p.maxBlockSize = maxBlockSize
	if len(p.scratch) != layout.Inputs {
		p.scratch = make([][]float64, layout.Inputs)
		p.views = make([][]float64, layout.Inputs)
	}
	for ch := range p.scratch {
		p.scratch[ch] = core.EnsureLen(p.scratch[ch], maxBlockSize)
	}
	p.prepared = true
	return nil
}

// Release frees the delay lines. Process passes audio through until the
// next Prepare.
func (p *DelayProcessor) Release() {
	p.engine.Release()
	p.scratch = nil
	p.views = nil
	p.prepared = false
}

// Process runs the delay in place on the input channels and silences any
// further output channels.
func (p *DelayProcessor) Process(buffers [][]float32) {
	if !p.prepared {
		return
	}

	c := p.params.Snapshot()
	p.engine.SetControls(c.DelayTime, c.Mix, c.Feedback)

	n := min(len(buffers), p.layout.Inputs)
	for ch := n; ch < len(buffers); ch++ {
		core.Zero32(buffers[ch])
	}
	if n == 0 {
		return
	}

	length := len(buffers[0])
	for ch := 1; ch < n; ch++ {
		length = min(length, len(buffers[ch]))
	}

	for start := 0; start < length; start += p.maxBlockSize {
		end := min(start+p.maxBlockSize, length)
		for ch := 0; ch < n; ch++ {
			view := p.scratch[ch][:end-start]
			core.Widen(view, buffers[ch][start:end])
			p.views[ch] = view
		}
		p.engine.Process(p.views[:n])
		for ch := 0; ch < n; ch++ {
			core.Narrow(buffers[ch][start:end], p.views[ch])
		}
	}
}

// DelaySamples returns the echo offset for the current parameters, or 0
// before Prepare.
func (p *DelayProcessor) DelaySamples() int {
	if !p.prepared {
		return 0
	}
	p.engine.SetDelayTime(p.params.DelayTime.Value())
	return p.engine.DelaySamples()
}

// MaxDelaySamples returns the delay line capacity, or 0 before Prepare.
func (p *DelayProcessor) MaxDelaySamples() int {
	if !p.prepared {
		return 0
	}
	return p.engine.MaxDelaySamples()
}

// Info describes the plugin. TailSeconds follows the current parameters and
// is +Inf when feedback is at unity.
func (p *DelayProcessor) Info() Info {
	info := Info{Name: Name, Vendor: Vendor, Version: Version, Category: Category}
	if !p.prepared {
		return info
	}

	c := p.params.Snapshot()
	p.engine.SetControls(c.DelayTime, c.Mix, c.Feedback)
	tail := p.engine.TailSamples()
	if tail == math.MaxInt32 {
		info.TailSeconds = math.Inf(1)
	} else {
		info.TailSeconds = float64(tail) / p.engine.SampleRate()
	}
	return info
}
