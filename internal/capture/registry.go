package capture

import (
	"context"
	"sync"
	"time"
)

// SessionRegistry maps sources to their ring buffers for one voice session.
//
// Removed sources are tombstoned: a chunk that arrives after its stream ended
// cannot recreate the entry until the source is explicitly reopened.
type SessionRegistry struct {
	retention time.Duration
	now       Clock

	mu         sync.RWMutex
	buffers    map[SourceID]*RingBuffer
	tombstones map[SourceID]struct{}
}

// NewSessionRegistry creates an empty registry whose buffers keep retention
// worth of audio. A nil clock uses time.Now.
func NewSessionRegistry(retention time.Duration, now Clock) *SessionRegistry {
	if now == nil {
		now = time.Now
	}
	return &SessionRegistry{
		retention:  retention,
		now:        now,
		buffers:    make(map[SourceID]*RingBuffer),
		tombstones: make(map[SourceID]struct{}),
	}
}

// Retention returns the per-buffer window.
func (r *SessionRegistry) Retention() time.Duration { return r.retention }

// Get returns the buffer for id if present.
func (r *SessionRegistry) Get(id SourceID) (*RingBuffer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.buffers[id]
	return b, ok
}

// GetOrCreate returns the buffer for id, creating it on first use. It returns
// false when id is tombstoned.
func (r *SessionRegistry) GetOrCreate(id SourceID) (*RingBuffer, bool) {
	r.mu.RLock()
	b, ok := r.buffers[id]
	_, dead := r.tombstones[id]
	r.mu.RUnlock()
	if ok {
		return b, true
	}
	if dead {
		return nil, false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dead := r.tombstones[id]; dead {
		return nil, false
	}
	if b, ok := r.buffers[id]; ok {
		return b, true
	}
	b = NewRingBuffer(id, r.retention, r.now)
	r.buffers[id] = b
	return b, true
}

// Open marks id as actively streaming. It clears any tombstone and reopens a
// retained buffer so earlier history is kept.
func (r *SessionRegistry) Open(id SourceID) *RingBuffer {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tombstones, id)
	if b, ok := r.buffers[id]; ok {
		b.Reopen()
		return b
	}
	b := NewRingBuffer(id, r.retention, r.now)
	r.buffers[id] = b
	return b
}

// Append adds c to id's buffer, creating it if needed. It reports false when
// the chunk was rejected because id is tombstoned or its buffer is closed.
func (r *SessionRegistry) Append(id SourceID, c Chunk) bool {
	b, ok := r.GetOrCreate(id)
	if !ok {
		return false
	}
	return b.Append(c) == nil
}

// Close ends id's stream but keeps its history readable.
func (r *SessionRegistry) Close(id SourceID) {
	r.mu.RLock()
	b, ok := r.buffers[id]
	r.mu.RUnlock()
	if ok {
		b.Close()
	}
}

// Remove ends id's stream, drops its history and tombstones it.
func (r *SessionRegistry) Remove(id SourceID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.buffers[id]; ok {
		b.Close()
		b.Clear()
		delete(r.buffers, id)
	}
	r.tombstones[id] = struct{}{}
}

// Sources lists the ids currently held.
func (r *SessionRegistry) Sources() []SourceID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]SourceID, 0, len(r.buffers))
	for id := range r.buffers {
		ids = append(ids, id)
	}
	return ids
}

// Len returns the number of held sources.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buffers)
}

// AllSnapshots copies the trailing window of every source. Sources with
// nothing in the window are omitted. A window <= 0 copies everything.
func (r *SessionRegistry) AllSnapshots(window time.Duration) map[SourceID][]Chunk {
	r.mu.RLock()
	bufs := make([]*RingBuffer, 0, len(r.buffers))
	for _, b := range r.buffers {
		bufs = append(bufs, b)
	}
	r.mu.RUnlock()

	out := make(map[SourceID][]Chunk, len(bufs))
	for _, b := range bufs {
		var chunks []Chunk
		if window > 0 {
			chunks = b.SnapshotWindow(window)
		} else {
			chunks = b.Snapshot()
		}
		if len(chunks) > 0 {
			out[b.Source()] = chunks
		}
	}
	return out
}

// Sweep evicts expired chunks from closed buffers and drops closed entries
// with nothing left, tombstoning them. It returns the number of entries dropped.
func (r *SessionRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, b := range r.buffers {
		if !b.Closed() {
			continue
		}
		b.Evict()
		if b.Len() == 0 {
			delete(r.buffers, id)
			r.tombstones[id] = struct{}{}
			dropped++
		}
	}
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *SessionRegistry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Reset closes and drops every entry and forgets all tombstones.
func (r *SessionRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.buffers {
		b.Close()
		b.Clear()
	}
	r.buffers = make(map[SourceID]*RingBuffer)
	r.tombstones = make(map[SourceID]struct{})
}
