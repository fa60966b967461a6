// Package audio holds the PCM primitives shared by capture, mixing and
// serialization: sample conversion, the Opus codec, peak normalization and the
// RIFF/WAVE container.
package audio

import "time"

// Format constants for Discord voice audio.
const (
	SampleRate    = 48_000                // Hz
	FrameSize     = 960                   // samples per channel (20 ms)
	FrameDuration = 20 * time.Millisecond // one Opus frame
	BitDepth      = 16                    // signed little-endian
	MaxChannels   = 2
)

// Format describes a linear PCM layout.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// Mono48k is the default clip format.
var Mono48k = Format{SampleRate: SampleRate, Channels: 1, BitDepth: BitDepth}

// NewFormat returns a 48 kHz 16-bit format with the given channel count.
func NewFormat(channels int) Format {
	return Format{SampleRate: SampleRate, Channels: channels, BitDepth: BitDepth}
}

// BlockAlign is the size in bytes of one interleaved sample frame.
func (f Format) BlockAlign() int {
	return f.Channels * f.BitDepth / 8
}

// ByteRate is the number of bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// Duration returns the playback length of n bytes in this format.
func (f Format) Duration(n int) time.Duration {
	br := f.ByteRate()
	if br == 0 {
		return 0
	}
	return time.Duration(int64(n) * int64(time.Second) / int64(br))
}

// SamplesDuration returns the playback length of n interleaved int16 samples.
func (f Format) SamplesDuration(n int) time.Duration {
	return f.Duration(n * f.BitDepth / 8)
}
