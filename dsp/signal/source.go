package signal

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// Source fills blocks with a continuous signal. Fill does not allocate, so a
// Source can run inside an audio callback.
type Source interface {
	Fill(dst []float64)
}

var (
	_ Source = (*SineSource)(nil)
	_ Source = (*NoiseSource)(nil)
	_ Source = (*ClickSource)(nil)
	_ Source = Silence{}
)

// SineSource is a phase-continuous sine oscillator.
type SineSource struct {
	amplitude float64
	step      float64
	phase     float64
}

// NewSineSource returns an oscillator at freqHz.
func NewSineSource(freqHz, amplitude, sampleRate float64) *SineSource {
	return &SineSource{
		amplitude: amplitude,
		step:      2 * math.Pi * freqHz / sampleRate,
	}
}

func (s *SineSource) Fill(dst []float64) {
	for i := range dst {
		dst[i] = s.amplitude * math.Sin(s.phase)
		s.phase += s.step
		if s.phase >= 2*math.Pi {
			s.phase -= 2 * math.Pi
		}
	}
}

// NoiseSource produces triangular-distribution white noise in
// [-amplitude, amplitude].
type NoiseSource struct {
	amplitude float64
	state     *vecmath.DitherState
}

// NewNoiseSource returns a deterministic noise source for seed.
func NewNoiseSource(seed int64, amplitude float64) *NoiseSource {
	return &NoiseSource{
		amplitude: amplitude,
		state:     vecmath.NewDitherState(seed),
	}
}

func (s *NoiseSource) Fill(dst []float64) {
	vecmath.GenerateTPDF(dst, s.amplitude, s.state)
}

// ClickSource emits a single-sample pulse every period samples, starting
// with the first sample.
type ClickSource struct {
	amplitude float64
	period    int
	pos       int
}

// NewClickSource returns a pulse train. Periods below 1 are treated as 1.
func NewClickSource(period int, amplitude float64) *ClickSource {
	return &ClickSource{amplitude: amplitude, period: max(period, 1)}
}

func (s *ClickSource) Fill(dst []float64) {
	for i := range dst {
		if s.pos == 0 {
			dst[i] = s.amplitude
		} else {
			dst[i] = 0
		}
		s.pos++
		if s.pos == s.period {
			s.pos = 0
		}
	}
}

// Silence fills with zeros.
type Silence struct{}

func (Silence) Fill(dst []float64) { core.Zero(dst) }
