package host

import "errors"

// ErrNoAudio is returned by backend constructors in builds without audio
// support.
var ErrNoAudio = errors.New("host: built without audio support")

// Backend drives a Processor from an audio device.
type Backend interface {
	Start() error
	Stop() error
	Close() error
}

// Config describes the device stream.
type Config struct {
	SampleRate      float64
	Channels        int
	FramesPerBuffer int
}
