package capture

import (
	"sync"
	"time"
)

// RingBuffer holds the most recent chunks of one source, oldest first.
// After every Append the head is no older than the retention window.
//
// Only the owning ingestion path appends; snapshots may be taken from any
// goroutine and are always copies.
type RingBuffer struct {
	source    SourceID
	retention time.Duration
	now       Clock

	mu     sync.RWMutex
	chunks []Chunk
	head   int
	closed bool
}

// NewRingBuffer creates an empty buffer. A nil clock uses time.Now.
func NewRingBuffer(source SourceID, retention time.Duration, now Clock) *RingBuffer {
	if now == nil {
		now = time.Now
	}
	return &RingBuffer{
		source:    source,
		retention: retention,
		now:       now,
	}
}

// Source returns the owning source.
func (b *RingBuffer) Source() SourceID { return b.source }

// Retention returns the configured window.
func (b *RingBuffer) Retention() time.Duration { return b.retention }

// Append inserts c at the tail and evicts expired chunks from the head.
// A chunk stamped before the current tail is clamped to the tail's timestamp
// so the buffer stays ordered.
func (b *RingBuffer) Append(c Chunk) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBufferClosed
	}

	if n := len(b.chunks); n > b.head {
		if tail := b.chunks[n-1].Timestamp; c.Timestamp.Before(tail) {
			c.Timestamp = tail
		}
	}
	b.chunks = append(b.chunks, c)
	b.evictLocked(b.now())

	return nil
}

// Evict drops expired chunks without appending. Used by the sweeper on
// closed buffers.
func (b *RingBuffer) Evict() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.evictLocked(b.now())
}

func (b *RingBuffer) evictLocked(now time.Time) {
	for b.head < len(b.chunks) && now.Sub(b.chunks[b.head].Timestamp) > b.retention {
		b.chunks[b.head] = Chunk{}
		b.head++
	}

	switch {
	case b.head == len(b.chunks):
		b.chunks = b.chunks[:0]
		b.head = 0
	case b.head > 64 && b.head > len(b.chunks)/2:
		n := copy(b.chunks, b.chunks[b.head:])
		clear(b.chunks[n:])
		b.chunks = b.chunks[:n]
		b.head = 0
	}
}

// Snapshot copies every retained chunk.
func (b *RingBuffer) Snapshot() []Chunk {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.copyFrom(b.head)
}

// SnapshotWindow copies the chunks stamped within the trailing window d.
func (b *RingBuffer) SnapshotWindow(d time.Duration) []Chunk {
	cutoff := b.now().Add(-d)

	b.mu.RLock()
	defer b.mu.RUnlock()

	i := b.head
	for i < len(b.chunks) && b.chunks[i].Timestamp.Before(cutoff) {
		i++
	}
	return b.copyFrom(i)
}

// SnapshotLast copies at most the newest k chunks.
func (b *RingBuffer) SnapshotLast(k int) []Chunk {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start := len(b.chunks) - k
	if start < b.head {
		start = b.head
	}
	return b.copyFrom(start)
}

func (b *RingBuffer) copyFrom(i int) []Chunk {
	if i >= len(b.chunks) {
		return nil
	}
	out := make([]Chunk, len(b.chunks)-i)
	copy(out, b.chunks[i:])
	return out
}

// Clear drops all chunks. The open/closed state is unchanged.
func (b *RingBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.chunks)
	b.chunks = b.chunks[:0]
	b.head = 0
}

// Close makes the buffer read-only.
func (b *RingBuffer) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
}

// Reopen accepts appends again after Close, keeping retained history.
func (b *RingBuffer) Reopen() {
	b.mu.Lock()
	b.closed = false
	b.mu.Unlock()
}

// Closed reports whether the buffer is read-only.
func (b *RingBuffer) Closed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Len returns the number of retained chunks.
func (b *RingBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.chunks) - b.head
}

// Duration is the span between the oldest and newest retained chunk.
func (b *RingBuffer) Duration() time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.chunks) == b.head {
		return 0
	}
	return b.chunks[len(b.chunks)-1].Timestamp.Sub(b.chunks[b.head].Timestamp)
}

// Newest returns the timestamp of the newest chunk, or false when empty.
func (b *RingBuffer) Newest() (time.Time, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.chunks) == b.head {
		return time.Time{}, false
	}
	return b.chunks[len(b.chunks)-1].Timestamp, true
}
