package host

import (
	"sync"

	"github.com/cwbudde/algo-delay/plugin"
)

// Binding maps a key to a normalized parameter nudge.
type Binding struct {
	Key   byte
	Param string
	Delta float64
}

// DefaultBindings nudge the delay time by 20 ms and mix and feedback by 5%.
var DefaultBindings = []Binding{
	{'[', plugin.ParamDelayTime, -0.01},
	{']', plugin.ParamDelayTime, 0.01},
	{',', plugin.ParamMix, -0.05},
	{'.', plugin.ParamMix, 0.05},
	{'-', plugin.ParamFeedback, -0.05},
	{'=', plugin.ParamFeedback, 0.05},
}

const keyCtrlC = 0x03

// KeyControl turns key presses into parameter changes. Keys are handled on
// the reader goroutine; the parameters are atomic, so the audio goroutine
// picks up changes on its next block.
type KeyControl struct {
	params   *plugin.Params
	bindings []Binding
	onChange func(*plugin.Parameter)

	quit     chan struct{}
	quitOnce sync.Once

	term terminal
}

// NewKeyControl creates a controller with DefaultBindings. onChange, if
// not nil, is called after every parameter change.
func NewKeyControl(params *plugin.Params, onChange func(*plugin.Parameter)) *KeyControl {
	return &KeyControl{
		params:   params,
		bindings: DefaultBindings,
		onChange: onChange,
		quit:     make(chan struct{}),
	}
}

// HandleKey applies the binding for b. 'q' and Ctrl-C close Quit.
func (k *KeyControl) HandleKey(b byte) {
	if b == 'q' || b == keyCtrlC {
		k.quitOnce.Do(func() { close(k.quit) })
		return
	}

	for _, bind := range k.bindings {
		if bind.Key != b {
			continue
		}
		p, ok := k.params.Lookup(bind.Param)
		if !ok {
			return
		}
		p.Set(p.Value() + bind.Delta)
		if k.onChange != nil {
			k.onChange(p)
		}
		return
	}
}

// Quit is closed when the user asks to exit.
func (k *KeyControl) Quit() <-chan struct{} { return k.quit }
