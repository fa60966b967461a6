package capture

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/observe"
)

// Module provides capture settings and the per-session Factory.
var Module = fx.Module("capture",
	fx.Provide(
		NewSettings,
		NewFactory,
	),
)

// FactoryParams holds dependencies for NewFactory.
type FactoryParams struct {
	fx.In
	Logger   *zap.Logger
	Settings Settings
	Metrics  *observe.Metrics
	// Decoders defaults to audio.NewOpusDecoder.
	Decoders DecoderFactory `optional:"true"`
}

// Factory builds the registry and ingestor of a voice session.
type Factory struct {
	logger   *zap.Logger
	settings Settings
	metrics  *observe.Metrics
	decoders DecoderFactory
}

// NewFactory creates a Factory.
func NewFactory(params FactoryParams) *Factory {
	return &Factory{
		logger:   params.Logger,
		settings: params.Settings,
		metrics:  params.Metrics,
		decoders: params.Decoders,
	}
}

// Settings returns the shared capture settings.
func (f *Factory) Settings() Settings { return f.settings }

// NewRegistry creates an empty registry with the configured retention.
func (f *Factory) NewRegistry() *SessionRegistry {
	return NewSessionRegistry(f.settings.Retention, nil)
}

// NewIngestor creates an ingestor writing to reg.
func (f *Factory) NewIngestor(reg *SessionRegistry, logger *zap.Logger, onEnd StreamEndHook) *Ingestor {
	if logger == nil {
		logger = f.logger
	}
	return NewIngestor(IngestorParams{
		Logger:      logger,
		Registry:    reg,
		Settings:    f.settings,
		NewDecoder:  f.decoders,
		Metrics:     f.metrics,
		OnStreamEnd: onEnd,
	})
}
