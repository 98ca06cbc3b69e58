package signal

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// Errors returned by Generator methods and Normalize.
var (
	ErrInvalidSamples    = errors.New("signal: sample count must be > 0")
	ErrInvalidSampleRate = errors.New("signal: sample rate must be > 0")
	ErrInvalidAmplitude  = errors.New("signal: amplitude must be >= 0")
	ErrInvalidPeriod     = errors.New("signal: period must be > 0")
	ErrEmptyInput        = errors.New("signal: input must not be empty")
)

// Generator creates deterministic test signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() int64 { return g.seed }

// SetSeed changes the noise seed.
func (g *Generator) SetSeed(seed int64) { g.seed = seed }

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine: %w: %d", ErrInvalidSamples, samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine: %w: %f", ErrInvalidSampleRate, g.cfg.SampleRate)
	}

	out := make([]float64, samples)
	NewSineSource(freqHz, amplitude, g.cfg.SampleRate).Fill(out)
	return out, nil
}

// WhiteNoise generates uniform white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise: %w: %d", ErrInvalidSamples, samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise: %w: %f", ErrInvalidAmplitude, amplitude)
	}

	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// TPDFNoise generates triangular-distribution noise in [-amplitude, amplitude].
func (g *Generator) TPDFNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("tpdf noise: %w: %d", ErrInvalidSamples, samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("tpdf noise: %w: %f", ErrInvalidAmplitude, amplitude)
	}

	out := make([]float64, samples)
	NewNoiseSource(g.seed, amplitude).Fill(out)
	return out, nil
}

// ImpulseTrain generates a pulse of the given amplitude every period
// samples, starting at index 0.
func (g *Generator) ImpulseTrain(period int, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse train: %w: %d", ErrInvalidSamples, samples)
	}
	if period <= 0 {
		return nil, fmt.Errorf("impulse train: %w: %d", ErrInvalidPeriod, period)
	}

	out := make([]float64, samples)
	NewClickSource(period, amplitude).Fill(out)
	return out, nil
}

// Normalize scales data to targetPeak and returns a new slice. Silent input
// stays silent.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize: %w: %f", ErrInvalidAmplitude, targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize: %w", ErrEmptyInput)
	}

	out := make([]float64, len(data))
	peak := vecmath.MaxAbs(data)
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	vecmath.ScaleBlock(out, data, targetPeak/peak)
	return out, nil
}
