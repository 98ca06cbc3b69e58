//go:build !headless

package host

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/cwbudde/algo-delay/plugin"
)

var _ Backend = (*PortAudioBackend)(nil)

// PortAudioBackend runs a blocking PortAudio stream on its own goroutine.
//
// With live input the stream is duplex: each captured buffer is copied to
// the output and processed in place. Without input the renderer's source
// feeds the processor.
type PortAudioBackend struct {
	proc   plugin.Processor
	render *Renderer

	stream *portaudio.Stream
	in     [][]float32
	out    [][]float32

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once
}

// NewPortAudioBackend opens the default devices. A nil render selects
// live input.
func NewPortAudioBackend(cfg Config, proc plugin.Processor, render *Renderer) (*PortAudioBackend, error) {
	if cfg.Channels <= 0 || cfg.FramesPerBuffer <= 0 {
		return nil, ErrInvalidGeometry
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio init: %w", err)
	}

	b := &PortAudioBackend{
		proc:   proc,
		render: render,
		out:    makeBuffers(cfg.Channels, cfg.FramesPerBuffer),
	}

	var (
		stream *portaudio.Stream
		err    error
	)
	if render == nil {
		b.in = makeBuffers(cfg.Channels, cfg.FramesPerBuffer)
		stream, err = portaudio.OpenDefaultStream(cfg.Channels, cfg.Channels, cfg.SampleRate, cfg.FramesPerBuffer, b.in, b.out)
	} else {
		stream, err = portaudio.OpenDefaultStream(0, cfg.Channels, cfg.SampleRate, cfg.FramesPerBuffer, b.out)
	}
	if err != nil {
		portaudio.Terminate() //nolint:errcheck
		return nil, fmt.Errorf("portaudio open stream: %w", err)
	}
	b.stream = stream
	return b, nil
}

func makeBuffers(channels, frames int) [][]float32 {
	bufs := make([][]float32, channels)
	for ch := range bufs {
		bufs[ch] = make([]float32, frames)
	}
	return bufs
}

func (b *PortAudioBackend) Start() error {
	if err := b.stream.Start(); err != nil {
		return fmt.Errorf("portaudio start stream: %w", err)
	}

	b.stopCh = make(chan struct{})
	b.done = make(chan struct{})
	b.stopped = sync.Once{}

	go b.run()
	return nil
}

func (b *PortAudioBackend) run() {
	defer close(b.done)

	for {
		select {
		case <-b.stopCh:
			return
		default:
		}

		if b.render == nil {
			if err := b.stream.Read(); err != nil {
				return
			}
			for ch := range b.out {
				copy(b.out[ch], b.in[ch])
			}
			b.proc.Process(b.out)
		} else {
			b.render.Render(b.out)
		}

		if err := b.stream.Write(); err != nil {
			return
		}
	}
}

func (b *PortAudioBackend) Stop() error {
	if b.stopCh == nil {
		return nil
	}
	b.stopped.Do(func() { close(b.stopCh) })
	<-b.done

	if err := b.stream.Stop(); err != nil {
		return fmt.Errorf("portaudio stop stream: %w", err)
	}
	return nil
}

func (b *PortAudioBackend) Close() error {
	err := b.stream.Close()
	portaudio.Terminate() //nolint:errcheck
	if err != nil {
		return fmt.Errorf("portaudio close stream: %w", err)
	}
	return nil
}
