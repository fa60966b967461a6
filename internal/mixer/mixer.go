// Package mixer combines per-source PCM snapshots into one stream.
package mixer

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

// Mode selects how sources are combined.
type Mode string

const (
	// Concatenate orders every chunk by (timestamp, seq) and joins them.
	Concatenate Mode = "concatenate"
	// Mix averages the sources sample by sample, truncated to the shortest.
	Mix Mode = "mix"
)

// ErrUnknownMode is returned for a Mode other than Concatenate or Mix.
var ErrUnknownMode = errors.New("mixer: unknown mode")

// ParseMode validates s. Empty selects Concatenate.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Concatenate, Mix:
		return m, nil
	case "":
		return Concatenate, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Result is the combined audio.
type Result struct {
	// PCM is little-endian 16-bit audio.
	PCM []byte
	// Samples is the number of int16 samples in PCM.
	Samples int
	// Sources is how many sources contributed audio.
	Sources int
	// Empty is set when no source had any audio.
	Empty bool
}

// Combine merges sources according to mode. Sources without samples are
// ignored; if none remain the Result is Empty. Inputs are never modified.
func Combine(sources map[capture.SourceID][]capture.Chunk, mode Mode) (Result, error) {
	live := make([]capture.SourceID, 0, len(sources))
	for id, chunks := range sources {
		if capture.TotalSamples(chunks) > 0 {
			live = append(live, id)
		}
	}
	if len(live) == 0 {
		return Result{Empty: true}, nil
	}
	// stable iteration so mix output does not depend on map order
	slices.Sort(live)

	var samples []int16
	switch {
	case mode != Concatenate && mode != Mix:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	case len(live) == 1:
		samples = flatten(sources[live[0]])
	case mode == Concatenate:
		samples = concatenate(sources, live)
	default:
		samples = mix(sources, live)
	}

	return Result{
		PCM:     audio.PCMInt16ToLE(samples),
		Samples: len(samples),
		Sources: len(live),
		Empty:   len(samples) == 0,
	}, nil
}

func flatten(chunks []capture.Chunk) []int16 {
	out := make([]int16, 0, capture.TotalSamples(chunks))
	for _, c := range chunks {
		out = append(out, c.Samples...)
	}
	return out
}

func concatenate(sources map[capture.SourceID][]capture.Chunk, ids []capture.SourceID) []int16 {
	var all []capture.Chunk
	for _, id := range ids {
		all = append(all, sources[id]...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Before(all[j])
	})
	return flatten(all)
}

func mix(sources map[capture.SourceID][]capture.Chunk, ids []capture.SourceID) []int16 {
	streams := make([][]int16, len(ids))
	n := math.MaxInt
	for i, id := range ids {
		streams[i] = flatten(sources[id])
		n = min(n, len(streams[i]))
	}

	out := make([]int16, n)
	count := float64(len(streams))
	for i := range out {
		var sum int64
		for _, s := range streams {
			sum += int64(s[i])
		}
		out[i] = audio.RoundClamp16(float64(sum) / count)
	}
	return out
}
