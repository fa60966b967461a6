package capture_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

const frame = 20 * time.Millisecond

// feed appends n chunks 20ms apart starting at the clock's current time and
// leaves the clock at the last chunk's timestamp.
func feed(t *testing.T, clk *fakeClock, b *capture.RingBuffer, n int) {
	t.Helper()
	for i := range n {
		if i > 0 {
			clk.Advance(frame)
		}
		require.NoError(t, b.Append(capture.Chunk{
			Timestamp: clk.Now(),
			Seq:       uint64(i),
			Samples:   []int16{int16(i)},
		}))
	}
}

func TestRingBuffer_RetentionAfterForty(t *testing.T) {
	clk := newFakeClock()
	start := clk.Now()
	b := capture.NewRingBuffer("alice", 30*time.Second, clk.Now)

	// 40 seconds of audio.
	feed(t, clk, b, 2000)

	chunks := b.Snapshot()
	require.Len(t, chunks, 1501)
	assert.Equal(t, start.Add(499*frame), chunks[0].Timestamp)
	assert.Equal(t, uint64(1999), chunks[len(chunks)-1].Seq)
	assert.Equal(t, 30*time.Second, b.Duration())

	now := clk.Now()
	for _, c := range chunks {
		assert.LessOrEqual(t, now.Sub(c.Timestamp), 30*time.Second)
	}
}

func TestRingBuffer_HeadNeverExpiredAfterAppend(t *testing.T) {
	clk := newFakeClock()
	b := capture.NewRingBuffer("alice", time.Second, clk.Now)

	gaps := []time.Duration{frame, frame, 700 * time.Millisecond, frame, 2 * time.Second, frame, 999 * time.Millisecond, frame}
	for i, gap := range gaps {
		clk.Advance(gap)
		require.NoError(t, b.Append(capture.Chunk{Timestamp: clk.Now(), Seq: uint64(i)}))

		chunks := b.Snapshot()
		require.NotEmpty(t, chunks)
		assert.LessOrEqual(t, clk.Now().Sub(chunks[0].Timestamp), time.Second)
		for j := 1; j < len(chunks); j++ {
			assert.False(t, chunks[j].Timestamp.Before(chunks[j-1].Timestamp))
		}
	}
}

func TestRingBuffer_Snapshots(t *testing.T) {
	clk := newFakeClock()
	b := capture.NewRingBuffer("alice", 30*time.Second, clk.Now)
	feed(t, clk, b, 2000)

	tests := map[string]struct {
		get       func() []capture.Chunk
		wantLen   int
		wantFirst uint64
	}{
		"window 10s": {
			get:       func() []capture.Chunk { return b.SnapshotWindow(10 * time.Second) },
			wantLen:   501,
			wantFirst: 1499,
		},
		"window longer than retention": {
			get:       func() []capture.Chunk { return b.SnapshotWindow(120 * time.Second) },
			wantLen:   1501,
			wantFirst: 499,
		},
		"last 5": {
			get:       func() []capture.Chunk { return b.SnapshotLast(5) },
			wantLen:   5,
			wantFirst: 1995,
		},
		"last more than held": {
			get:       func() []capture.Chunk { return b.SnapshotLast(5000) },
			wantLen:   1501,
			wantFirst: 499,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := tt.get()
			require.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantFirst, got[0].Seq)
		})
	}
}

func TestRingBuffer_SnapshotIsCopy(t *testing.T) {
	clk := newFakeClock()
	b := capture.NewRingBuffer("alice", time.Minute, clk.Now)
	feed(t, clk, b, 3)

	snap := b.Snapshot()
	snap[0] = capture.Chunk{Seq: 99}

	assert.Equal(t, uint64(0), b.Snapshot()[0].Seq)
}

func TestRingBuffer_ClampsOutOfOrderTimestamp(t *testing.T) {
	clk := newFakeClock()
	b := capture.NewRingBuffer("alice", time.Minute, clk.Now)

	require.NoError(t, b.Append(capture.Chunk{Timestamp: clk.Now(), Seq: 1}))
	require.NoError(t, b.Append(capture.Chunk{Timestamp: clk.Now().Add(-time.Second), Seq: 2}))

	chunks := b.Snapshot()
	require.Len(t, chunks, 2)
	assert.Equal(t, chunks[0].Timestamp, chunks[1].Timestamp)
}

func TestRingBuffer_CloseReopenClear(t *testing.T) {
	clk := newFakeClock()
	b := capture.NewRingBuffer("alice", time.Minute, clk.Now)
	feed(t, clk, b, 3)

	b.Close()
	assert.True(t, b.Closed())
	assert.ErrorIs(t, b.Append(capture.Chunk{Timestamp: clk.Now()}), capture.ErrBufferClosed)
	assert.Equal(t, 3, b.Len())

	b.Reopen()
	require.NoError(t, b.Append(capture.Chunk{Timestamp: clk.Now()}))
	assert.Equal(t, 4, b.Len())

	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Zero(t, b.Duration())
	_, ok := b.Newest()
	assert.False(t, ok)
	assert.Nil(t, b.Snapshot())
}

func TestRingBuffer_EvictOnIdle(t *testing.T) {
	clk := newFakeClock()
	b := capture.NewRingBuffer("alice", time.Second, clk.Now)
	feed(t, clk, b, 10)

	clk.Advance(2 * time.Second)
	assert.Empty(t, b.SnapshotWindow(time.Second))
	assert.Equal(t, 10, b.Len())

	b.Evict()
	assert.Equal(t, 0, b.Len())
}
