package audio

import (
	"errors"
	"fmt"
	"sync"

	"layeh.com/gopus"
)

// ErrEmptyFrame is returned when an Opus payload has no bytes.
var ErrEmptyFrame = errors.New("opus payload empty")

// ErrCodecClosed is returned after Close.
var ErrCodecClosed = errors.New("codec closed")

// Decoder turns Discord Opus frames into 48 kHz PCM.
// The output has Channels() interleaved channels.
type Decoder interface {
	Decode(opus []byte) ([]int16, error)
	Channels() int
	Close() error
}

// Encoder turns 20 ms frames of 48 kHz mono PCM into Opus packets for Discord.
type Encoder interface {
	Encode(mono []int16) ([]byte, error)
	Close() error
}

type opusDecoder struct {
	mu       sync.Mutex
	dec      *gopus.Decoder
	channels int
}

// NewOpusDecoder creates a gopus-backed decoder. Discord always sends stereo
// Opus; when channels is 1 the decoded frame is down-mixed.
func NewOpusDecoder(channels int) (Decoder, error) {
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("unsupported channel count %d", channels)
	}
	dec, err := gopus.NewDecoder(SampleRate, MaxChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}
	return &opusDecoder{dec: dec, channels: channels}, nil
}

func (d *opusDecoder) Decode(opus []byte) ([]int16, error) {
	if len(opus) == 0 {
		return nil, ErrEmptyFrame
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dec == nil {
		return nil, ErrCodecClosed
	}

	raw, err := d.dec.Decode(opus, FrameSize, false)
	if err != nil {
		return nil, fmt.Errorf("opus decode: %w", err)
	}
	if d.channels == 1 {
		return StereoToMono(raw), nil
	}
	return raw, nil
}

func (d *opusDecoder) Channels() int { return d.channels }

func (d *opusDecoder) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	// gopus releases its state through a finalizer
	d.dec = nil
	return nil
}

type opusEncoder struct {
	mu  sync.Mutex
	enc *gopus.Encoder
}

// NewOpusEncoder creates a speech-tuned encoder producing stereo 48 kHz Opus.
func NewOpusEncoder(bitrate int) (Encoder, error) {
	enc, err := gopus.NewEncoder(SampleRate, MaxChannels, gopus.Voip)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}
	if bitrate > 0 {
		enc.SetBitrate(bitrate)
	}
	return &opusEncoder{enc: enc}, nil
}

// Encode encodes one 960-sample mono frame. Shorter frames are padded with
// silence.
func (e *opusEncoder) Encode(mono []int16) ([]byte, error) {
	if len(mono) > FrameSize {
		return nil, fmt.Errorf("need at most %d samples, got %d", FrameSize, len(mono))
	}
	frame := mono
	if len(frame) < FrameSize {
		frame = make([]int16, FrameSize)
		copy(frame, mono)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.enc == nil {
		return nil, ErrCodecClosed
	}
	return e.enc.Encode(MonoToStereo(frame), FrameSize, 4000)
}

func (e *opusEncoder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enc = nil
	return nil
}
