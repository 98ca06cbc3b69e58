//go:build !linux && !darwin && !freebsd

package host

import "errors"

// ErrNoTerminal is returned by Start where raw key input is unsupported.
var ErrNoTerminal = errors.New("host: raw key input not supported on this platform")

type terminal struct{}

// Start is unsupported on this platform; drive HandleKey directly instead.
func (k *KeyControl) Start() error { return ErrNoTerminal }

// Stop is a no-op.
func (k *KeyControl) Stop() {}
