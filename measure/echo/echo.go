package echo

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/effects"
)

// Errors returned by echo analysis functions.
var (
	ErrEmptyResponse     = errors.New("echo: impulse response is empty")
	ErrInvalidSampleRate = errors.New("echo: sample rate must be positive")
	ErrInvalidLength     = errors.New("echo: length must be positive")
	ErrInvalidFFTSize    = errors.New("echo: fft size must be a power of two >= 2")
)

// DefaultThresholdDB is the tap detection floor relative to the peak.
const DefaultThresholdDB = -60.0

const renderBlockSize = 512

// Tap is one discrete arrival in an echo train.
type Tap struct {
	Index     int     // sample index
	Time      float64 // seconds
	Amplitude float64 // signed sample value
	LevelDB   float64 // level relative to the response peak
}

// Metrics holds echo train analysis results.
type Metrics struct {
	Peak      float64 // absolute maximum
	PeakIndex int     // first sample reaching Peak
	Energy    float64 // sum of squares
	Taps      []Tap

	// Spacing is the mean interval between repeats in seconds. The first tap
	// is the direct arrival; repeats are measured from the second tap on.
	Spacing float64

	// DecayPerRepeatDB is the mean level change from one repeat to the next.
	// Zero when fewer than two repeats were found.
	DecayPerRepeatDB float64

	// RT60 is the time for the repeats to fall by 60 dB, extrapolated from
	// DecayPerRepeatDB. +Inf for a sustained train, 0 when unknown.
	RT60 float64

	CenterTime float64 // energy centroid in seconds
}

// ImpulseResponse renders a unit impulse through a freshly configured mono
// delay and returns length samples of output.
func ImpulseResponse(sampleRate float64, c effects.Controls, length int) ([]float64, error) {
	if length <= 0 {
		return nil, ErrInvalidLength
	}

	d := effects.NewDelay(effects.WithControls(c))
	if err := d.Configure(sampleRate, renderBlockSize, 1); err != nil {
		return nil, fmt.Errorf("echo: %w", err)
	}
	defer d.Release()

	out := make([]float64, length)
	out[0] = 1

	block := make([][]float64, 1)
	for start := 0; start < length; start += renderBlockSize {
		block[0] = out[start:min(start+renderBlockSize, length)]
		d.Process(block)
	}
	return out, nil
}

// Analyzer extracts echo metrics from impulse responses.
type Analyzer struct {
	SampleRate  float64
	ThresholdDB float64 // tap floor relative to the peak, e.g. -60
}

// NewAnalyzer creates an analyzer with the default tap threshold.
func NewAnalyzer(sampleRate float64) *Analyzer {
	return &Analyzer{SampleRate: sampleRate, ThresholdDB: DefaultThresholdDB}
}

// Analyze computes peak, energy, taps and decay metrics.
func (a *Analyzer) Analyze(ir []float64) (Metrics, error) {
	if len(ir) == 0 {
		return Metrics{}, ErrEmptyResponse
	}
	if a.SampleRate <= 0 {
		return Metrics{}, ErrInvalidSampleRate
	}

	m := Metrics{
		Peak:   vecmath.MaxAbs(ir),
		Energy: vecmath.DotProduct(ir, ir),
	}
	m.PeakIndex = peakIndex(ir, m.Peak)
	m.CenterTime = a.centerTime(ir, m.Energy)
	m.Taps = a.findTaps(ir, m.Peak)

	if len(m.Taps) >= 2 {
		repeats := m.Taps
		if len(repeats) >= 3 {
			repeats = repeats[1:]
		}
		n := float64(len(repeats) - 1)
		first, last := repeats[0], repeats[len(repeats)-1]
		m.Spacing = (last.Time - first.Time) / n
		if len(m.Taps) >= 3 {
			m.DecayPerRepeatDB = (last.LevelDB - first.LevelDB) / n
		}
	}

	switch {
	case m.DecayPerRepeatDB < 0:
		m.RT60 = -60 / m.DecayPerRepeatDB * m.Spacing
	case len(m.Taps) >= 3:
		m.RT60 = math.Inf(1)
	}

	return m, nil
}

// FindTaps returns the local maxima of |ir| that lie within ThresholdDB of
// the peak, in time order.
func (a *Analyzer) FindTaps(ir []float64) ([]Tap, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyResponse
	}
	if a.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	return a.findTaps(ir, vecmath.MaxAbs(ir)), nil
}

func (a *Analyzer) findTaps(ir []float64, peak float64) []Tap {
	if peak == 0 {
		return nil
	}

	floor := peak * core.DBToLinear(a.ThresholdDB)

	var taps []Tap
	for i, v := range ir {
		av := math.Abs(v)
		if av == 0 || av < floor {
			continue
		}
		if i > 0 && math.Abs(ir[i-1]) >= av {
			continue
		}
		if i+1 < len(ir) && math.Abs(ir[i+1]) > av {
			continue
		}
		taps = append(taps, Tap{
			Index:     i,
			Time:      float64(i) / a.SampleRate,
			Amplitude: v,
			LevelDB:   core.LinearToDB(av / peak),
		})
	}
	return taps
}

func (a *Analyzer) centerTime(ir []float64, energy float64) float64 {
	if energy <= 0 {
		return 0
	}

	var numerator float64
	for i, v := range ir {
		numerator += float64(i) * v * v
	}
	return numerator / energy / a.SampleRate
}

func peakIndex(ir []float64, peak float64) int {
	for i, v := range ir {
		if math.Abs(v) == peak {
			return i
		}
	}
	return 0
}

// FrequencyResponse returns the magnitude of the first fftSize/2+1 bins of
// ir, truncated or zero padded to fftSize.
func FrequencyResponse(ir []float64, fftSize int) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyResponse
	}
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, ErrInvalidFFTSize
	}

	in := make([]complex128, fftSize)
	for i := 0; i < fftSize && i < len(ir); i++ {
		in[i] = complex(ir[i], 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("echo: fft plan: %w", err)
	}

	spectrum := make([]complex128, fftSize)
	if err := plan.Forward(spectrum, in); err != nil {
		return nil, fmt.Errorf("echo: fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(spectrum[k])
		im[k] = imag(spectrum[k])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)
	return mag, nil
}
