package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
)

// VoiceStatus reports where the bot listens in a guild.
type VoiceStatus interface {
	Listening(guildID discord.GuildID) (channelID discord.ChannelID, since time.Time, ok bool)
}

// PingCommand answers with the bot's voice status in the guild.
type PingCommand struct {
	status VoiceStatus
	now    func() time.Time
}

// NewPingCommand creates a new PingCommand instance.
func NewPingCommand(status VoiceStatus) Command {
	return &PingCommand{status: status, now: time.Now}
}

func (c *PingCommand) Name() string {
	return "ping"
}

func (c *PingCommand) Description() string {
	return "Check that the bot is alive and listening"
}

func (c *PingCommand) Options() []discord.CommandOption {
	return nil
}

func (c *PingCommand) Execute(ctx context.Context, r Responder, e *gateway.InteractionCreateEvent, data *discord.CommandInteraction) error {
	if !e.GuildID.IsValid() {
		return respondEphemeral(r, e, "Pong!")
	}
	channelID, since, ok := c.status.Listening(e.GuildID)
	if !ok {
		return respondEphemeral(r, e, "Pong! I'm not in a voice channel right now.")
	}
	up := c.now().Sub(since).Truncate(time.Second)
	return respondEphemeral(r, e, fmt.Sprintf("Pong! Listening in %s for %s.", channelID.Mention(), up))
}
