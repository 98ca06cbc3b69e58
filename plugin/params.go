package plugin

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/dsp/effects"
)

// Parameter IDs.
const (
	ParamDelayTime = "delayTime"
	ParamMix       = "mix"
	ParamFeedback  = "feedback"
)

// ErrUnknownParameter is returned for IDs not in Params.
var ErrUnknownParameter = errors.New("plugin: unknown parameter")

// Parameter is a normalized [0, 1] control exposed to the host.
// The value is stored atomically, so the control and audio goroutines can
// share it without locking.
type Parameter struct {
	ID      string
	Name    string
	Unit    string
	Default float64

	// plain value = normalized * scale
	scale float64
	value atomic.Uint64
}

func newParameter(id, name, unit string, def, scale float64) *Parameter {
	p := &Parameter{ID: id, Name: name, Unit: unit, Default: def, scale: scale}
	p.Set(def)
	return p
}

// Value returns the normalized value.
func (p *Parameter) Value() float64 {
	return math.Float64frombits(p.value.Load())
}

// Set stores a normalized value, clamped to [0, 1].
func (p *Parameter) Set(v float64) {
	p.value.Store(math.Float64bits(core.ClampUnit(v)))
}

// Reset restores the default value.
func (p *Parameter) Reset() {
	p.Set(p.Default)
}

// Plain returns the value in display units.
func (p *Parameter) Plain() float64 {
	return p.Value() * p.scale
}

// Format renders the current value for display, e.g. "250 ms" or "40 %".
func (p *Parameter) Format() string {
	return p.FormatValue(p.Value())
}

// FormatValue renders a normalized value for display.
func (p *Parameter) FormatValue(normalized float64) string {
	return strconv.FormatFloat(core.ClampUnit(normalized)*p.scale, 'f', 0, 64) + " " + p.Unit
}

// Parse converts a display string ("250 ms", "250", "40%") into a
// normalized value. The unit suffix is optional.
func (p *Parameter) Parse(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, p.Unit))
	plain, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", p.ID, err)
	}
	return core.ClampUnit(plain / p.scale), nil
}

// Params holds the delay's host-facing controls.
type Params struct {
	DelayTime *Parameter
	Mix       *Parameter
	Feedback  *Parameter
}

// NewParams returns the controls at their defaults: half the delay range,
// half wet, no feedback.
func NewParams() *Params {
	def := effects.DefaultControls()
	return &Params{
		DelayTime: newParameter(ParamDelayTime, "Delay Time", "ms", def.DelayTime, effects.MaxDelaySeconds*1000),
		Mix:       newParameter(ParamMix, "Mix", "%", def.Mix, 100),
		Feedback:  newParameter(ParamFeedback, "Feedback", "%", def.Feedback, 100),
	}
}

// All returns the parameters in display order.
func (p *Params) All() []*Parameter {
	return []*Parameter{p.DelayTime, p.Mix, p.Feedback}
}

// Lookup finds a parameter by ID.
func (p *Params) Lookup(id string) (*Parameter, bool) {
	for _, param := range p.All() {
		if param.ID == id {
			return param, true
		}
	}
	return nil, false
}

// Set stores a normalized value for the parameter with the given ID.
func (p *Params) Set(id string, v float64) error {
	param, ok := p.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, id)
	}
	param.Set(v)
	return nil
}

// Snapshot returns the current values as engine controls.
func (p *Params) Snapshot() effects.Controls {
	return effects.Controls{
		DelayTime: p.DelayTime.Value(),
		Mix:       p.Mix.Value(),
		Feedback:  p.Feedback.Value(),
	}
}
