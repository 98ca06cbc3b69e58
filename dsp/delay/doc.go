// Package delay provides a fixed-capacity circular sample buffer for delay
// effects.
//
// A Line separates peeking at an offset behind the write cursor (Read) from
// append-and-advance (Write). Reading the old sample before overwriting it in
// the same time step is what lets feedback accumulate across passes through
// the buffer. Both operations are O(1) and never allocate.
package delay
