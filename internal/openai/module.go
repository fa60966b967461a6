// Package openai provides the OpenAI client used for speech transcription.
package openai

import (
	"github.com/sashabaranov/go-openai"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/config"
)

// Module provides the OpenAI client.
var Module = fx.Module("openai",
	fx.Provide(NewClient),
)

// NewClient creates the OpenAI client. Without an API key it returns nil and
// features depending on it stay off.
func NewClient(cfg *config.Config, logger *zap.Logger) *openai.Client {
	if cfg.OpenAI.APIKey == "" {
		logger.Info("OpenAI API key is not configured, transcription disabled")
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAI.BaseURL
	}

	client := openai.NewClientWithConfig(clientCfg)
	logger.Info("OpenAI client created successfully.")

	return client
}
