package plugin

import "fmt"

// Layout is the channel configuration negotiated with the host.
type Layout struct {
	Inputs  int
	Outputs int
}

// Mono is a single in, single out layout.
var Mono = Layout{Inputs: 1, Outputs: 1}

// Stereo is a two in, two out layout.
var Stereo = Layout{Inputs: 2, Outputs: 2}

// Supported reports whether the delay can run with this layout: mono or
// stereo, with matching input and output counts.
func (l Layout) Supported() bool {
	if l.Outputs != 1 && l.Outputs != 2 {
		return false
	}
	return l.Inputs == l.Outputs
}

func (l Layout) String() string {
	return fmt.Sprintf("%din/%dout", l.Inputs, l.Outputs)
}

// Info describes a processor to the host.
type Info struct {
	Name        string
	Vendor      string
	Version     string
	Category    string
	TailSeconds float64
}

// Processor is the contract between an audio host and an effect.
//
// Prepare and Release are called from the control side while the audio
// callback is stopped. Process is called from the audio callback only, with
// one slice per output channel; the first Inputs slices carry the input
// signal and are processed in place.
type Processor interface {
	Prepare(sampleRate float64, maxBlockSize int, layout Layout) error
	Release()
	Process(buffers [][]float32)
	Info() Info
}
