package commands

import (
	"context"
	"errors"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/voice"
)

// ReplayCommand plays the requester's last clip into the voice channel.
type ReplayCommand struct {
	logger  *zap.Logger
	service ClipService
}

// NewReplayCommand creates a ReplayCommand.
func NewReplayCommand(logger *zap.Logger, service ClipService) Command {
	return &ReplayCommand{logger: logger, service: service}
}

func (c *ReplayCommand) Name() string {
	return "replay"
}

func (c *ReplayCommand) Description() string {
	return "Play your last clip in the voice channel"
}

func (c *ReplayCommand) Options() []discord.CommandOption {
	return nil
}

func (c *ReplayCommand) Execute(ctx context.Context, r Responder, e *gateway.InteractionCreateEvent, data *discord.CommandInteraction) error {
	if !e.GuildID.IsValid() {
		return respondEphemeral(r, e, guildOnly)
	}

	length, err := c.service.Replay(e.GuildID.String(), e.SenderID().String())
	if err != nil {
		if errors.Is(err, voice.ErrNotConnected) {
			return respondEphemeral(r, e, "I'm not in a voice channel.")
		}
		return respondEphemeral(r, e, voice.UserMessage(err))
	}

	c.logger.Info("Replaying clip",
		zap.String("guild_id", e.GuildID.String()),
		zap.Duration("length", length))
	return respondEphemeral(r, e, "▶️ Replaying your last saved audio.")
}
