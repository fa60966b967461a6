package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/config"
	"github.com/Raikerian/go-discord-clipper/internal/voice"
)

// ClipCommand sends the requester the last seconds of the voice channel.
type ClipCommand struct {
	logger  *zap.Logger
	service ClipService
	def     time.Duration
	max     time.Duration
}

// NewClipCommand creates a ClipCommand bounded by the configured clip
// durations.
func NewClipCommand(logger *zap.Logger, cfg *config.Config, service ClipService) Command {
	return &ClipCommand{
		logger:  logger,
		service: service,
		def:     cfg.Clip.DefaultDuration,
		max:     cfg.Clip.MaxDuration,
	}
}

func (c *ClipCommand) Name() string {
	return "clip"
}

func (c *ClipCommand) Description() string {
	return "Clip the last few seconds of voice chat and send it to your DMs"
}

func (c *ClipCommand) Options() []discord.CommandOption {
	return []discord.CommandOption{
		&discord.IntegerOption{
			OptionName:  "seconds",
			Description: fmt.Sprintf("How many seconds to clip (default %d)", int(c.def/time.Second)),
			Required:    false,
			Min:         option.NewInt(1),
			Max:         option.NewInt(int(c.max / time.Second)),
		},
	}
}

func (c *ClipCommand) Execute(ctx context.Context, r Responder, e *gateway.InteractionCreateEvent, data *discord.CommandInteraction) error {
	if !e.GuildID.IsValid() {
		return respondEphemeral(r, e, guildOnly)
	}

	req := newRequest(e, clip.KindClip)
	req.Duration = c.def
	for _, opt := range data.Options {
		if opt.Name != "seconds" {
			continue
		}
		n, err := opt.IntValue()
		if err != nil {
			return respondEphemeral(r, e, "Invalid number of seconds.")
		}
		req.Duration = time.Duration(n) * time.Second
	}

	if err := req.Validate(c.max); err != nil {
		return respondEphemeral(r, e, clip.UserMessage(err))
	}

	if err := deferEphemeral(r, e); err != nil {
		return err
	}

	out, err := c.service.Clip(ctx, req)
	if err != nil {
		c.logger.Warn("Clip command failed",
			zap.String("guild_id", req.GuildID),
			zap.String("user_id", req.RequesterID),
			zap.Error(err))
		return followUp(r, e, voice.UserMessage(err))
	}
	return followUp(r, e, out.Message)
}
