//go:build headless

package host

import (
	"io"

	"github.com/cwbudde/algo-delay/plugin"
)

// OtoBackend is unavailable in headless builds.
type OtoBackend struct{}

// NewOtoBackend always fails with ErrNoAudio.
func NewOtoBackend(Config, io.Reader) (*OtoBackend, error) { return nil, ErrNoAudio }

func (*OtoBackend) Start() error { return ErrNoAudio }
func (*OtoBackend) Stop() error  { return nil }
func (*OtoBackend) Close() error { return nil }

// PortAudioBackend is unavailable in headless builds.
type PortAudioBackend struct{}

// NewPortAudioBackend always fails with ErrNoAudio.
func NewPortAudioBackend(Config, plugin.Processor, *Renderer) (*PortAudioBackend, error) {
	return nil, ErrNoAudio
}

func (*PortAudioBackend) Start() error { return ErrNoAudio }
func (*PortAudioBackend) Stop() error  { return nil }
func (*PortAudioBackend) Close() error { return nil }
