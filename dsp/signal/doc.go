// Package signal generates test signals for the delay: one-shot buffers from
// a Generator and allocation-free block Sources for live playback.
package signal
