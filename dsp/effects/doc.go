// Package effects provides the real-time feedback delay engine.
//
// Delay owns one delay.Line per channel, each two seconds long at the session
// sample rate. For every sample it reads the delayed value, writes the input
// plus the scaled delayed value back, and blends dry and wet signals in
// place:
//
//	delayed = line.Read(D)
//	line.Write(in + delayed*feedback)
//	out     = in*(1-mix) + delayed*mix
//
// The three controls (delay time, mix, feedback) are normalized to [0, 1]
// and stored atomically, so a control goroutine may update them while the
// audio goroutine runs Process. Process itself never allocates, locks or
// fails.
package effects
