package mixer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
	"github.com/Raikerian/go-discord-clipper/internal/mixer"
	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func chunk(offset time.Duration, seq uint64, samples ...int16) capture.Chunk {
	return capture.Chunk{Timestamp: t0.Add(offset), Seq: seq, Samples: samples}
}

func TestCombine(t *testing.T) {
	tests := map[string]struct {
		sources map[capture.SourceID][]capture.Chunk
		mode    mixer.Mode
		want    []int16
		wantSrc int
	}{
		"mix averages and truncates": {
			sources: map[capture.SourceID][]capture.Chunk{
				"a": {chunk(0, 1, 100, -100), chunk(20*time.Millisecond, 3, 0, 32767)},
				"b": {chunk(0, 2, 200, -200, 0, -32768), chunk(20*time.Millisecond, 4, 5, 5)},
			},
			mode:    mixer.Mix,
			want:    []int16{150, -150, 0, -1},
			wantSrc: 2,
		},
		"mix rounds half away from zero": {
			sources: map[capture.SourceID][]capture.Chunk{
				"a": {chunk(0, 1, 1, -1, 32767)},
				"b": {chunk(0, 2, 2, -2, 32767)},
			},
			mode:    mixer.Mix,
			want:    []int16{2, -2, 32767},
			wantSrc: 2,
		},
		"concatenate orders by timestamp": {
			sources: map[capture.SourceID][]capture.Chunk{
				"a": {chunk(0, 1, 1, 1), chunk(40*time.Millisecond, 5, 3, 3)},
				"b": {chunk(20*time.Millisecond, 2, 2, 2)},
			},
			mode:    mixer.Concatenate,
			want:    []int16{1, 1, 2, 2, 3, 3},
			wantSrc: 2,
		},
		"concatenate breaks ties by seq": {
			sources: map[capture.SourceID][]capture.Chunk{
				"a": {chunk(0, 7, 7)},
				"b": {chunk(0, 3, 3)},
				"c": {chunk(0, 5, 5)},
			},
			mode:    mixer.Concatenate,
			want:    []int16{3, 5, 7},
			wantSrc: 3,
		},
		"single source passes through": {
			sources: map[capture.SourceID][]capture.Chunk{
				"a": {chunk(0, 1, 4, 5), chunk(20*time.Millisecond, 2, 6)},
			},
			mode:    mixer.Mix,
			want:    []int16{4, 5, 6},
			wantSrc: 1,
		},
		"empty sources are ignored": {
			sources: map[capture.SourceID][]capture.Chunk{
				"a": {chunk(0, 1, 9, 9)},
				"b": nil,
				"c": {chunk(0, 2)},
			},
			mode:    mixer.Mix,
			want:    []int16{9, 9},
			wantSrc: 1,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := mixer.Combine(tt.sources, tt.mode)
			require.NoError(t, err)
			assert.False(t, res.Empty)
			assert.Equal(t, tt.wantSrc, res.Sources)
			assert.Equal(t, len(tt.want), res.Samples)
			assert.Equal(t, tt.want, audio.LEToPCMInt16(res.PCM))
		})
	}
}

func TestCombine_ConcatenateLength(t *testing.T) {
	sources := map[capture.SourceID][]capture.Chunk{}
	total := 0
	for i, id := range []capture.SourceID{"a", "b", "c"} {
		for j := range 10 + i {
			sources[id] = append(sources[id], chunk(time.Duration(j)*20*time.Millisecond, uint64(i*100+j), make([]int16, 960)...))
			total += 960
		}
	}

	res, err := mixer.Combine(sources, mixer.Concatenate)
	require.NoError(t, err)
	assert.Equal(t, total, res.Samples)
	assert.Len(t, res.PCM, total*2)
}

func TestCombine_Empty(t *testing.T) {
	for name, sources := range map[string]map[capture.SourceID][]capture.Chunk{
		"nil":       nil,
		"no chunks": {"a": nil, "b": {}},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := mixer.Combine(sources, mixer.Concatenate)
			require.NoError(t, err)
			assert.True(t, res.Empty)
			assert.Zero(t, res.Samples)
		})
	}
}

func TestCombine_DoesNotMutateInput(t *testing.T) {
	a := []int16{100, 200}
	sources := map[capture.SourceID][]capture.Chunk{
		"b": {chunk(20*time.Millisecond, 2, 1)},
		"a": {chunk(0, 1, a...)},
	}

	_, err := mixer.Combine(sources, mixer.Concatenate)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), sources["b"][0].Seq)
	assert.Equal(t, []int16{100, 200}, sources["a"][0].Samples)
}

func TestCombine_UnknownMode(t *testing.T) {
	_, err := mixer.Combine(map[capture.SourceID][]capture.Chunk{
		"a": {chunk(0, 1, 1)},
		"b": {chunk(0, 2, 1)},
	}, "blend")
	assert.ErrorIs(t, err, mixer.ErrUnknownMode)
}

func TestParseMode(t *testing.T) {
	m, err := mixer.ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, mixer.Concatenate, m)

	m, err = mixer.ParseMode("mix")
	require.NoError(t, err)
	assert.Equal(t, mixer.Mix, m)

	_, err = mixer.ParseMode("blend")
	assert.ErrorIs(t, err, mixer.ErrUnknownMode)
}
