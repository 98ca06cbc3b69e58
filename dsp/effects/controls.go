package effects

import (
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// Controls is a snapshot of the three normalized delay controls.
type Controls struct {
	DelayTime float64 // fraction of MaxDelaySeconds, [0, 1]
	Mix       float64 // wet amount, [0, 1]
	Feedback  float64 // regeneration gain, [0, 1]
}

// DefaultControls returns the power-on control values.
func DefaultControls() Controls {
	return Controls{
		DelayTime: defaultDelayTime,
		Mix:       defaultMix,
		Feedback:  defaultFeedback,
	}
}

// Clamped returns c with every field limited to [0, 1].
func (c Controls) Clamped() Controls {
	return Controls{
		DelayTime: core.ClampUnit(c.DelayTime),
		Mix:       core.ClampUnit(c.Mix),
		Feedback:  core.ClampUnit(c.Feedback),
	}
}

// atomicFloat stores a float64 as its IEEE-754 bits so the audio goroutine
// can load it without locking.
type atomicFloat struct {
	bits atomic.Uint64
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}

// controlStore holds the live control values. Each scalar is read and
// written atomically; no cross-field consistency is promised.
type controlStore struct {
	delayTime atomicFloat
	mix       atomicFloat
	feedback  atomicFloat
}

func (s *controlStore) store(c Controls) {
	c = c.Clamped()
	s.delayTime.Store(c.DelayTime)
	s.mix.Store(c.Mix)
	s.feedback.Store(c.Feedback)
}

func (s *controlStore) load() Controls {
	return Controls{
		DelayTime: s.delayTime.Load(),
		Mix:       s.mix.Load(),
		Feedback:  s.feedback.Load(),
	}
}
