//go:build !headless

package host

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

var _ Backend = (*OtoBackend)(nil)

// OtoBackend plays a Reader of interleaved float32 samples through oto.
// The player pulls from the reader on oto's own goroutine.
type OtoBackend struct {
	ctx     *oto.Context
	player  *oto.Player
	started bool
	mu      sync.Mutex
}

// NewOtoBackend opens the default output device. oto allows one context
// per process.
func NewOtoBackend(cfg Config, src io.Reader) (*OtoBackend, error) {
	bufferSize := time.Duration(float64(cfg.FramesPerBuffer) / cfg.SampleRate * float64(time.Second))

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	<-ready

	return &OtoBackend{
		ctx:    ctx,
		player: ctx.NewPlayer(src),
	}, nil
}

func (b *OtoBackend) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started && b.player != nil {
		b.player.Play()
		b.started = true
	}
	return nil
}

func (b *OtoBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started && b.player != nil {
		b.player.Pause()
		b.started = false
	}
	return nil
}

func (b *OtoBackend) Close() error {
	if err := b.Stop(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player == nil {
		return nil
	}
	err := b.player.Close()
	b.player = nil
	if err != nil {
		return fmt.Errorf("oto player close: %w", err)
	}
	return nil
}
