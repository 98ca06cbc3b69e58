//go:build linux || darwin || freebsd

package host

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

type terminal struct {
	fd          int
	oldState    *term.State
	nonblockSet bool
	stopCh      chan struct{}
	done        chan struct{}
	stopped     sync.Once
}

// Start puts stdin in raw non-blocking mode and reads keys on a goroutine.
// Call Stop to restore the terminal.
func (k *KeyControl) Start() error {
	t := &k.term
	t.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(t.fd)
	if err != nil {
		return fmt.Errorf("host: raw mode: %w", err)
	}
	t.oldState = oldState

	if err := syscall.SetNonblock(t.fd, true); err != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
		return fmt.Errorf("host: nonblocking stdin: %w", err)
	}
	t.nonblockSet = true

	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})
	t.stopped = sync.Once{}
	go k.readKeys()
	return nil
}

func (k *KeyControl) readKeys() {
	t := &k.term
	defer close(t.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-t.stopCh:
			return
		default:
		}

		n, err := syscall.Read(t.fd, buf)
		if n > 0 {
			k.HandleKey(buf[0])
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || (err == nil && n == 0) {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
	}
}

// Stop ends the reader and restores stdin.
func (k *KeyControl) Stop() {
	t := &k.term
	if t.stopCh == nil {
		return
	}
	t.stopped.Do(func() { close(t.stopCh) })
	<-t.done

	if t.nonblockSet {
		_ = syscall.SetNonblock(t.fd, false)
		t.nonblockSet = false
	}
	if t.oldState != nil {
		_ = term.Restore(t.fd, t.oldState)
		t.oldState = nil
	}
}
