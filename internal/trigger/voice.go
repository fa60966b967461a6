package trigger

import (
	"bytes"
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/mixer"
	"github.com/Raikerian/go-discord-clipper/internal/observe"
	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

// MinUtterance is the shortest speech worth transcribing.
const MinUtterance = 500 * time.Millisecond

const defaultTranscriptionTimeout = 15 * time.Second

// VoiceTriggerParams configures NewVoiceTrigger.
type VoiceTriggerParams struct {
	Logger      *zap.Logger
	Transcriber Transcriber
	Matcher     *PhraseMatcher
	Format      audio.Format
	Timeout     time.Duration
	Metrics     *observe.Metrics
}

// VoiceTrigger transcribes finished utterances and fires a PhraseMatch when
// the wake phrase was spoken.
type VoiceTrigger struct {
	logger      *zap.Logger
	transcriber Transcriber
	matcher     *PhraseMatcher
	format      audio.Format
	timeout     time.Duration
	metrics     *observe.Metrics
}

// NewVoiceTrigger creates a VoiceTrigger.
func NewVoiceTrigger(params VoiceTriggerParams) *VoiceTrigger {
	v := &VoiceTrigger{
		logger:      params.Logger,
		transcriber: params.Transcriber,
		matcher:     params.Matcher,
		format:      params.Format,
		timeout:     params.Timeout,
		metrics:     params.Metrics,
	}
	if v.logger == nil {
		v.logger = zap.NewNop()
	}
	if v.metrics == nil {
		v.metrics = observe.Nop()
	}
	if v.timeout <= 0 {
		v.timeout = defaultTranscriptionTimeout
	}
	if v.format.SampleRate == 0 {
		v.format = audio.Mono48k
	}
	return v
}

// Hook returns a stream end hook for guildID. Each utterance is inspected on
// its own goroutine; fire is called on a match.
func (v *VoiceTrigger) Hook(ctx context.Context, guildID string, fire func(clip.PhraseMatch)) capture.StreamEndHook {
	return func(end capture.StreamEnd) {
		if end.Reason != capture.EndSilence && end.Reason != capture.EndExplicit {
			return
		}
		go func() {
			m, ok := v.Inspect(ctx, end)
			if !ok {
				return
			}
			m.GuildID = guildID
			fire(m)
		}()
	}
}

// Inspect transcribes one utterance and matches it against the wake phrase.
func (v *VoiceTrigger) Inspect(ctx context.Context, end capture.StreamEnd) (clip.PhraseMatch, bool) {
	log := v.logger.With(zap.String("source", string(end.Source)))

	mixed, err := mixer.Combine(map[capture.SourceID][]capture.Chunk{end.Source: end.Utterance}, mixer.Concatenate)
	if err != nil || mixed.Empty {
		return clip.PhraseMatch{}, false
	}
	length := v.format.Duration(len(mixed.PCM))
	if length < MinUtterance {
		return clip.PhraseMatch{}, false
	}

	wav, err := audio.EncodeWAV(v.format, mixed.PCM)
	if err != nil {
		log.Warn("Failed to encode utterance", zap.Error(err))
		return clip.PhraseMatch{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	text, err := v.transcriber.Transcribe(ctx, bytes.NewReader(wav), "utterance.wav")
	if err != nil {
		v.metrics.RecordTranscription(ctx, "error")
		log.Warn("Transcription failed", zap.Error(err), zap.Duration("length", length))
		return clip.PhraseMatch{}, false
	}

	matched, ok := v.matcher.Match(text)
	if !ok {
		v.metrics.RecordTranscription(ctx, "no_match")
		log.Debug("Utterance did not match", zap.String("transcript", text))
		return clip.PhraseMatch{}, false
	}

	v.metrics.RecordTranscription(ctx, "match")
	log.Info("Voice trigger matched", zap.String("matched", matched))
	return clip.PhraseMatch{
		MatchedText: matched,
		RequesterID: string(end.Source),
		Origin:      clip.OriginVoice,
	}, true
}
