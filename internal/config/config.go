// Package config loads and validates the bot configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"gopkg.in/yaml.v3"
)

// DiscordConfig stores Discord specific configurations.
type DiscordConfig struct {
	BotToken      string             `yaml:"bot_token"`
	ApplicationID *discord.Snowflake `yaml:"application_id"`
	GuildIDs      []string           `yaml:"guild_ids"`
}

// OpenAIConfig stores OpenAI specific configurations. An empty APIKey
// disables the voice trigger.
type OpenAIConfig struct {
	APIKey             string `yaml:"api_key"`
	BaseURL            string `yaml:"base_url"`
	TranscriptionModel string `yaml:"transcription_model"`
}

// CaptureConfig controls per-speaker audio retention.
type CaptureConfig struct {
	// Retention is how much audio each speaker buffer keeps.
	Retention time.Duration `yaml:"retention"`
	// Channels is the decoded channel count, 1 or 2.
	Channels int `yaml:"channels"`
	// StreamEndPolicy is clear-on-silence or retain-until-eviction.
	StreamEndPolicy string        `yaml:"stream_end_policy"`
	SilenceTimeout  time.Duration `yaml:"silence_timeout"`
	QueueSize       int           `yaml:"queue_size"`
	// MaxConsecutiveDecodeErrors tears a source down after this many bad
	// frames in a row.
	MaxConsecutiveDecodeErrors int           `yaml:"max_consecutive_decode_errors"`
	SweepInterval              time.Duration `yaml:"sweep_interval"`
}

// ExternalEncoderConfig describes an optional post-processing command run on
// the serialized clip. Args may contain {input} and {output}; without them the
// input and output paths are appended.
type ExternalEncoderConfig struct {
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
}

// ClipConfig controls clip assembly.
type ClipConfig struct {
	DefaultDuration   time.Duration         `yaml:"default_duration"`
	MaxDuration       time.Duration         `yaml:"max_duration"`
	MixMode           string                `yaml:"mix_mode"`
	TempDir           string                `yaml:"temp_dir"`
	LastClipCacheSize int                   `yaml:"last_clip_cache_size"`
	ExternalEncoder   ExternalEncoderConfig `yaml:"external_encoder"`
}

// TriggerConfig controls the text and voice phrase triggers.
type TriggerConfig struct {
	TextEnabled          bool              `yaml:"text_enabled"`
	VoiceEnabled         bool              `yaml:"voice_enabled"`
	WakePhrase           string            `yaml:"wake_phrase"`
	FuzzyThreshold       float64           `yaml:"fuzzy_threshold"`
	VoiceChannelID       discord.Snowflake `yaml:"voice_channel_id"`
	TranscriptionTimeout time.Duration     `yaml:"transcription_timeout"`
}

// ObserveConfig controls the metrics and health endpoint. An empty
// ListenAddr disables it.
type ObserveConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config stores the application configuration.
type Config struct {
	Discord  DiscordConfig `yaml:"discord"`
	OpenAI   OpenAIConfig  `yaml:"openai"`
	Capture  CaptureConfig `yaml:"capture"`
	Clip     ClipConfig    `yaml:"clip"`
	Trigger  TriggerConfig `yaml:"trigger"`
	Observe  ObserveConfig `yaml:"observe"`
	LogLevel string        `yaml:"log_level"`
}

var (
	logLevels         = []string{"", "debug", "info", "warn", "error"}
	streamEndPolicies = []string{"clear-on-silence", "retain-until-eviction"}
	mixModes          = []string{"concatenate", "mix"}
)

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		OpenAI: OpenAIConfig{
			TranscriptionModel: "whisper-1",
		},
		Capture: CaptureConfig{
			Retention:                  30 * time.Second,
			Channels:                   1,
			StreamEndPolicy:            "retain-until-eviction",
			SilenceTimeout:             time.Second,
			QueueSize:                  64,
			MaxConsecutiveDecodeErrors: 25,
			SweepInterval:              5 * time.Second,
		},
		Clip: ClipConfig{
			DefaultDuration:   30 * time.Second,
			MaxDuration:       120 * time.Second,
			MixMode:           "concatenate",
			LastClipCacheSize: 128,
			ExternalEncoder: ExternalEncoderConfig{
				Timeout: 30 * time.Second,
			},
		},
		Trigger: TriggerConfig{
			TextEnabled:          true,
			VoiceEnabled:         true,
			WakePhrase:           "terry clip that",
			FuzzyThreshold:       0.88,
			TranscriptionTimeout: 15 * time.Second,
		},
	}
}

// LoadConfig loads the configuration from the given file path.
func LoadConfig(filePath string) (*Config, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config %q: %w", filePath, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", filePath, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults and validates the
// result. Unknown keys are rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg is coherent. It returns every failure joined.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(logLevels, c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", c.LogLevel))
	}

	cp := c.Capture
	if cp.Retention <= 0 {
		errs = append(errs, fmt.Errorf("capture.retention must be positive, got %s", cp.Retention))
	}
	if cp.Channels != 1 && cp.Channels != 2 {
		errs = append(errs, fmt.Errorf("capture.channels must be 1 or 2, got %d", cp.Channels))
	}
	if !slices.Contains(streamEndPolicies, cp.StreamEndPolicy) {
		errs = append(errs, fmt.Errorf("capture.stream_end_policy %q is invalid; valid values: clear-on-silence, retain-until-eviction", cp.StreamEndPolicy))
	}
	if cp.SilenceTimeout <= 0 {
		errs = append(errs, fmt.Errorf("capture.silence_timeout must be positive, got %s", cp.SilenceTimeout))
	}
	if cp.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("capture.queue_size must be positive, got %d", cp.QueueSize))
	}
	if cp.MaxConsecutiveDecodeErrors <= 0 {
		errs = append(errs, fmt.Errorf("capture.max_consecutive_decode_errors must be positive, got %d", cp.MaxConsecutiveDecodeErrors))
	}
	if cp.SweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("capture.sweep_interval must be positive, got %s", cp.SweepInterval))
	}

	cl := c.Clip
	if cl.MaxDuration < time.Second {
		errs = append(errs, fmt.Errorf("clip.max_duration must be at least 1s, got %s", cl.MaxDuration))
	}
	if cl.DefaultDuration < time.Second || cl.DefaultDuration > cl.MaxDuration {
		errs = append(errs, fmt.Errorf("clip.default_duration %s is out of range [1s, %s]", cl.DefaultDuration, cl.MaxDuration))
	}
	if !slices.Contains(mixModes, cl.MixMode) {
		errs = append(errs, fmt.Errorf("clip.mix_mode %q is invalid; valid values: concatenate, mix", cl.MixMode))
	}
	if cl.LastClipCacheSize <= 0 {
		errs = append(errs, fmt.Errorf("clip.last_clip_cache_size must be positive, got %d", cl.LastClipCacheSize))
	}
	if cl.ExternalEncoder.Command != "" && cl.ExternalEncoder.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("clip.external_encoder.timeout must be positive, got %s", cl.ExternalEncoder.Timeout))
	}

	tr := c.Trigger
	if tr.FuzzyThreshold <= 0 || tr.FuzzyThreshold > 1 {
		errs = append(errs, fmt.Errorf("trigger.fuzzy_threshold %.2f is out of range (0, 1]", tr.FuzzyThreshold))
	}
	if tr.VoiceEnabled && tr.WakePhrase == "" {
		errs = append(errs, errors.New("trigger.wake_phrase is required when trigger.voice_enabled is set"))
	}
	if tr.VoiceEnabled && tr.TranscriptionTimeout <= 0 {
		errs = append(errs, fmt.Errorf("trigger.transcription_timeout must be positive, got %s", tr.TranscriptionTimeout))
	}

	return errors.Join(errs...)
}

// GuildIDs parses the configured guild IDs, skipping invalid entries.
func (c *Config) GuildIDs() ([]discord.GuildID, []error) {
	ids := make([]discord.GuildID, 0, len(c.Discord.GuildIDs))
	var errs []error
	for _, raw := range c.Discord.GuildIDs {
		sf, err := discord.ParseSnowflake(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid guild id %q: %w", raw, err))
			continue
		}
		ids = append(ids, discord.GuildID(sf))
	}
	return ids, errs
}
