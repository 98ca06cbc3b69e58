// Package plugin wraps the feedback delay in a host-facing processor:
// channel layout negotiation, normalized parameters with display
// formatting, and float32 block processing.
package plugin
