package voice

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

// replayBitrate is the Opus bitrate of replayed clips.
const replayBitrate = 64000

// silenceFrame is sent after playback so clients stop interpolating.
var silenceFrame = []byte{0xF8, 0xFF, 0xFE}

// OpusWriter accepts Opus frames for playback.
type OpusWriter interface {
	WriteOpus(frame []byte) error
}

// PlayerParams configures NewPlayer.
type PlayerParams struct {
	Logger *zap.Logger
	// NewEncoder defaults to audio.NewOpusEncoder.
	NewEncoder func(bitrate int) (audio.Encoder, error)
	// FrameDuration defaults to audio.FrameDuration.
	FrameDuration time.Duration
}

// Player streams PCM into a voice connection.
type Player struct {
	logger     *zap.Logger
	newEncoder func(bitrate int) (audio.Encoder, error)
	frame      time.Duration
}

// NewPlayer creates a Player.
func NewPlayer(params PlayerParams) *Player {
	p := &Player{
		logger:     params.Logger,
		newEncoder: params.NewEncoder,
		frame:      params.FrameDuration,
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.newEncoder == nil {
		p.newEncoder = audio.NewOpusEncoder
	}
	if p.frame <= 0 {
		p.frame = audio.FrameDuration
	}
	return p
}

// Play encodes pcm in 20 ms frames and writes one frame per frame duration
// until the clip ends or ctx is done.
func (p *Player) Play(ctx context.Context, w OpusWriter, pcm []byte, f audio.Format) error {
	samples := audio.LEToPCMInt16(pcm)
	if f.Channels == 2 {
		samples = audio.StereoToMono(samples)
	}
	if len(samples) == 0 {
		return nil
	}

	enc, err := p.newEncoder(replayBitrate)
	if err != nil {
		return err
	}
	defer enc.Close()

	ticker := time.NewTicker(p.frame)
	defer ticker.Stop()

	frames := 0
	for off := 0; off < len(samples); off += audio.FrameSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		packet, err := enc.Encode(samples[off:min(off+audio.FrameSize, len(samples))])
		if err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", frames, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if err := w.WriteOpus(packet); err != nil {
			return fmt.Errorf("failed to play audio: %w", err)
		}
		frames++
	}

	for range 5 {
		if err := w.WriteOpus(silenceFrame); err != nil {
			break
		}
	}

	p.logger.Debug("Playback finished", zap.Int("frames", frames))
	return nil
}
