package config

import (
	"os"

	"go.uber.org/fx"
)

// Module provides *Config loaded from the supplied file path.
var Module = fx.Module("config",
	fx.Provide(ProvideConfig),
)

// Secrets read from the environment override the file.
const (
	EnvBotToken     = "DISCORD_BOT_TOKEN"
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
)

// ProvideConfig loads the file at path and applies environment overrides.
func ProvideConfig(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	ApplyEnv(cfg, os.LookupEnv)
	return cfg, nil
}

// ApplyEnv copies non-empty secrets from lookup into cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBotToken); ok && v != "" {
		cfg.Discord.BotToken = v
	}
	if v, ok := lookup(EnvOpenAIAPIKey); ok && v != "" {
		cfg.OpenAI.APIKey = v
	}
}
