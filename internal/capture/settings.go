package capture

import (
	"time"

	"github.com/Raikerian/go-discord-clipper/internal/config"
)

// Settings are the capture parameters shared by every voice session.
type Settings struct {
	Retention       time.Duration
	Channels        int
	Policy          StreamEndPolicy
	SilenceTimeout  time.Duration
	QueueSize       int
	MaxDecodeErrors int
	SweepInterval   time.Duration
}

// NewSettings reads Settings from the capture section of cfg.
func NewSettings(cfg *config.Config) (Settings, error) {
	policy, err := ParseStreamEndPolicy(cfg.Capture.StreamEndPolicy)
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		Retention:       cfg.Capture.Retention,
		Channels:        cfg.Capture.Channels,
		Policy:          policy,
		SilenceTimeout:  cfg.Capture.SilenceTimeout,
		QueueSize:       cfg.Capture.QueueSize,
		MaxDecodeErrors: cfg.Capture.MaxConsecutiveDecodeErrors,
		SweepInterval:   cfg.Capture.SweepInterval,
	}, nil
}
