package clip

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/config"
	"github.com/Raikerian/go-discord-clipper/internal/mixer"
	"github.com/Raikerian/go-discord-clipper/internal/observe"
	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

// Module provides the clip assembler and its collaborators.
var Module = fx.Module("clip",
	fx.Provide(
		NewSettings,
		ProvideLastClips,
		ProvideRecorder,
		NewExternalEncoder,
		ProvideAssembler,
	),
)

// NewSettings reads assembler Settings from cfg.
func NewSettings(cfg *config.Config) (Settings, error) {
	mode, err := mixer.ParseMode(cfg.Clip.MixMode)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		DefaultDuration: cfg.Clip.DefaultDuration,
		MaxDuration:     cfg.Clip.MaxDuration,
		Mode:            mode,
		Format:          audio.NewFormat(cfg.Capture.Channels),
		TempDir:         cfg.Clip.TempDir,
	}, nil
}

// ProvideLastClips creates the replay cache.
func ProvideLastClips(cfg *config.Config) (*LastClips, error) {
	return NewLastClips(cfg.Clip.LastClipCacheSize)
}

// ProvideRecorder creates a Recorder limited to the maximum clip duration.
func ProvideRecorder(cfg *config.Config, logger *zap.Logger) *Recorder {
	return NewRecorder(logger, cfg.Clip.MaxDuration)
}

// AssemblerDeps holds dependencies for ProvideAssembler.
type AssemblerDeps struct {
	fx.In
	Logger    *zap.Logger
	Settings  Settings
	Metrics   *observe.Metrics
	LastClips *LastClips
	Encoder   *ExternalEncoder `optional:"true"`
}

// ProvideAssembler creates the shared Assembler.
func ProvideAssembler(deps AssemblerDeps) *Assembler {
	return NewAssembler(AssemblerParams{
		Logger:    deps.Logger,
		Settings:  deps.Settings,
		Metrics:   deps.Metrics,
		LastClips: deps.LastClips,
		Encoder:   deps.Encoder,
	})
}
