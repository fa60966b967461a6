package trigger

import (
	"github.com/sashabaranov/go-openai"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/config"
	"github.com/Raikerian/go-discord-clipper/internal/observe"
	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

// Module provides the voice trigger. It is nil when disabled.
var Module = fx.Module("trigger",
	fx.Provide(ProvideVoiceTrigger),
)

// VoiceTriggerDeps holds dependencies for ProvideVoiceTrigger.
type VoiceTriggerDeps struct {
	fx.In
	Cfg     *config.Config
	Logger  *zap.Logger
	Metrics *observe.Metrics
	Client  *openai.Client `optional:"true"`
}

// ProvideVoiceTrigger returns nil when voice triggers are disabled or no
// OpenAI client is configured.
func ProvideVoiceTrigger(deps VoiceTriggerDeps) *VoiceTrigger {
	if !deps.Cfg.Trigger.VoiceEnabled {
		deps.Logger.Info("Voice trigger disabled by config")
		return nil
	}
	if deps.Client == nil {
		deps.Logger.Info("Voice trigger disabled: no OpenAI API key configured")
		return nil
	}
	return NewVoiceTrigger(VoiceTriggerParams{
		Logger:      deps.Logger,
		Transcriber: NewWhisperTranscriber(deps.Client, deps.Cfg.OpenAI.TranscriptionModel),
		Matcher:     NewPhraseMatcher(deps.Cfg.Trigger.WakePhrase, deps.Cfg.Trigger.FuzzyThreshold),
		Format:      audio.NewFormat(deps.Cfg.Capture.Channels),
		Timeout:     deps.Cfg.Trigger.TranscriptionTimeout,
		Metrics:     deps.Metrics,
	})
}
