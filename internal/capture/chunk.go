// Package capture turns per-speaker Opus streams into bounded, time-ordered
// PCM history that clips can be cut from.
package capture

import (
	"time"
)

// SourceID identifies one speaker. It is the Discord user ID as a string and
// is otherwise opaque.
type SourceID string

// Chunk is one decoded frame of PCM from a single source.
type Chunk struct {
	// Timestamp is the moment decoding completed.
	Timestamp time.Time
	// Seq is a process-wide arrival counter, used to order chunks sharing a
	// timestamp.
	Seq uint64
	// Samples holds interleaved 16-bit PCM.
	Samples []int16
}

// Clock returns the current time.
type Clock func() time.Time

// Before reports whether c sorts before o by (timestamp, seq).
func (c Chunk) Before(o Chunk) bool {
	if c.Timestamp.Equal(o.Timestamp) {
		return c.Seq < o.Seq
	}
	return c.Timestamp.Before(o.Timestamp)
}

// TotalSamples sums the sample counts of chunks.
func TotalSamples(chunks []Chunk) int {
	n := 0
	for _, c := range chunks {
		n += len(c.Samples)
	}
	return n
}
