package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/voice"
)

// RecordCommand starts an explicit recording of the voice channel.
type RecordCommand struct {
	logger  *zap.Logger
	service ClipService
}

// NewRecordCommand creates a RecordCommand.
func NewRecordCommand(logger *zap.Logger, service ClipService) Command {
	return &RecordCommand{logger: logger, service: service}
}

func (c *RecordCommand) Name() string {
	return "record"
}

func (c *RecordCommand) Description() string {
	return "Start recording the voice channel"
}

func (c *RecordCommand) Options() []discord.CommandOption {
	return nil
}

func (c *RecordCommand) Execute(ctx context.Context, r Responder, e *gateway.InteractionCreateEvent, data *discord.CommandInteraction) error {
	if !e.GuildID.IsValid() {
		return respondEphemeral(r, e, guildOnly)
	}

	if err := c.service.StartRecording(newRequest(e, clip.KindStartRecording)); err != nil {
		c.logger.Debug("Record command rejected", zap.Error(err))
		return respondEphemeral(r, e, voice.UserMessage(err))
	}
	return respondEphemeral(r, e, "🔴 Recording started. Use /stoprecording to get the audio.")
}

// StopRecordingCommand ends the recording and sends it to the requester.
type StopRecordingCommand struct {
	logger  *zap.Logger
	service ClipService
}

// NewStopRecordingCommand creates a StopRecordingCommand.
func NewStopRecordingCommand(logger *zap.Logger, service ClipService) Command {
	return &StopRecordingCommand{logger: logger, service: service}
}

func (c *StopRecordingCommand) Name() string {
	return "stoprecording"
}

func (c *StopRecordingCommand) Description() string {
	return "Stop recording and send the audio to your DMs"
}

func (c *StopRecordingCommand) Options() []discord.CommandOption {
	return nil
}

func (c *StopRecordingCommand) Execute(ctx context.Context, r Responder, e *gateway.InteractionCreateEvent, data *discord.CommandInteraction) error {
	if !e.GuildID.IsValid() {
		return respondEphemeral(r, e, guildOnly)
	}

	if err := deferEphemeral(r, e); err != nil {
		return err
	}

	out, err := c.service.StopRecording(ctx, newRequest(e, clip.KindStopRecording))
	if err != nil {
		c.logger.Warn("Stop recording failed", zap.String("guild_id", e.GuildID.String()), zap.Error(err))
		return followUp(r, e, voice.UserMessage(err))
	}
	return followUp(r, e, out.Message)
}
