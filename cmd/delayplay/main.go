// Command delayplay runs the feedback delay live on the default audio
// device.
//
// Usage:
//
//	delayplay [flags]
//
// While playing, the keyboard adjusts the parameters:
//
//	[ ]   delay time -/+ 20 ms
//	, .   mix -/+ 5 %
//	- =   feedback -/+ 5 %
//	q     quit
//
// Examples:
//
//	delayplay -source click -time "375 ms" -feedback 60%
//	delayplay -backend portaudio -source input -mix 30%
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/cwbudde/algo-delay/dsp/signal"
	"github.com/cwbudde/algo-delay/internal/host"
	"github.com/cwbudde/algo-delay/plugin"
)

type options struct {
	backend    string
	source     string
	sampleRate float64
	blockSize  int
	channels   int
	delayTime  string
	mix        string
	feedback   string
}

func main() {
	var o options
	flag.StringVar(&o.backend, "backend", "oto", "audio backend: oto or portaudio")
	flag.StringVar(&o.source, "source", "click", "signal source: click, sine, noise or input (portaudio only)")
	flag.Float64Var(&o.sampleRate, "rate", 48000, "sample rate in Hz")
	flag.IntVar(&o.blockSize, "block", 512, "frames per block")
	flag.IntVar(&o.channels, "channels", 2, "channel count, 1 or 2")
	flag.StringVar(&o.delayTime, "time", "500 ms", "delay time, 0 to 2000 ms")
	flag.StringVar(&o.mix, "mix", "50 %", "wet/dry mix, 0 to 100 %")
	flag.StringVar(&o.feedback, "feedback", "40 %", "feedback, 0 to 100 %")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: delayplay [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Plays a test signal or live input through the feedback delay.\n")
		fmt.Fprintf(os.Stderr, "Keys: [ ] delay time, , . mix, - = feedback, q quit.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("delayplay: ")

	if err := run(o); err != nil {
		log.Fatal(err)
	}
}

var (
	errUnknownSource  = errors.New("unknown source")
	errUnknownBackend = errors.New("unknown backend")
	errNoInput        = errors.New("live input needs -backend portaudio")
)

func run(o options) error {
	proc := plugin.NewDelayProcessor()
	if err := applyParams(proc.Params(), o); err != nil {
		return err
	}
	if err := proc.Prepare(o.sampleRate, o.blockSize, plugin.Layout{Inputs: o.channels, Outputs: o.channels}); err != nil {
		return err
	}
	defer proc.Release()

	backend, err := openBackend(o, proc)
	if err != nil {
		return err
	}
	defer backend.Close() //nolint:errcheck

	if err := backend.Start(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "%s via %s at %.0f Hz, %d ch, block %d\n", o.source, o.backend, o.sampleRate, o.channels, o.blockSize)
	printParams(proc.Params())

	keys := host.NewKeyControl(proc.Params(), func(p *plugin.Parameter) {
		fmt.Fprintf(os.Stderr, "\r%s: %s\x1b[K", p.Name, p.Format())
	})
	if err := keys.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "keyboard control disabled: %v\n", err)
	} else {
		defer keys.Stop()
	}

	sig := make(chan os.Signal, 1)
	ossignal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer ossignal.Stop(sig)

	select {
	case <-keys.Quit():
	case <-sig:
	}
	fmt.Fprintln(os.Stderr, "\r")

	return backend.Stop()
}

func applyParams(params *plugin.Params, o options) error {
	for _, set := range []struct {
		param *plugin.Parameter
		text  string
	}{
		{params.DelayTime, o.delayTime},
		{params.Mix, o.mix},
		{params.Feedback, o.feedback},
	} {
		v, err := set.param.Parse(set.text)
		if err != nil {
			return err
		}
		set.param.Set(v)
	}
	return nil
}

func printParams(params *plugin.Params) {
	for _, p := range params.All() {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", p.Name, p.Format())
	}
}

// newSource returns the generator for name, or nil for live input.
func newSource(name string, sampleRate float64) (signal.Source, error) {
	switch name {
	case "click":
		return signal.NewClickSource(int(sampleRate), 0.8), nil
	case "sine":
		return signal.NewSineSource(440, 0.3, sampleRate), nil
	case "noise":
		return signal.NewNoiseSource(1, 0.2), nil
	case "input":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownSource, name)
	}
}

func openBackend(o options, proc plugin.Processor) (host.Backend, error) {
	src, err := newSource(o.source, o.sampleRate)
	if err != nil {
		return nil, err
	}
	cfg := host.Config{SampleRate: o.sampleRate, Channels: o.channels, FramesPerBuffer: o.blockSize}

	var render *host.Renderer
	if src != nil {
		if render, err = host.NewRenderer(proc, src, o.channels, o.blockSize); err != nil {
			return nil, err
		}
	}

	switch o.backend {
	case "oto":
		if render == nil {
			return nil, errNoInput
		}
		b, err := host.NewOtoBackend(cfg, render)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "portaudio":
		b, err := host.NewPortAudioBackend(cfg, proc, render)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBackend, o.backend)
	}
}
