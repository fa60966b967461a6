package bot

import (
	"context"
	"fmt"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/trigger"
)

// HandleInteraction dispatches slash commands.
func (b *Bot) HandleInteraction(e *gateway.InteractionCreateEvent) {
	data, ok := e.Data.(*discord.CommandInteraction)
	if !ok {
		b.logger.Debug("Received unhandled interaction type", zap.String("type", fmt.Sprintf("%T", e.Data)))
		return
	}

	b.logger.Info("Received slash command",
		zap.String("commandName", data.Name),
		zap.Stringer("user", e.SenderID()))

	cmd, ok := b.cmds.GetCommand(data.Name)
	if !ok {
		b.logger.Warn("Unknown command", zap.String("commandName", data.Name))
		b.reply(e, "Command not found.")
		return
	}

	if err := cmd.Execute(b.ctx, b.responder, e, data); err != nil {
		b.logger.Error("Error executing command", zap.String("commandName", data.Name), zap.Error(err))
		b.reply(e, "An error occurred while executing the command.")
		return
	}
	b.logger.Debug("Command executed successfully", zap.String("commandName", data.Name))
}

func (b *Bot) reply(e *gateway.InteractionCreateEvent, content string) {
	err := b.responder.RespondInteraction(e.ID, e.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: &api.InteractionResponseData{
			Content: option.NewNullableString(content),
			Flags:   discord.EphemeralMessage,
		},
	})
	if err != nil {
		b.logger.Error("Failed to respond to interaction", zap.Error(err))
	}
}

// HandleMessage turns a trigger phrase in a guild text channel into a clip
// posted back into that channel.
func (b *Bot) HandleMessage(e *gateway.MessageCreateEvent) {
	if !b.cfg.Trigger.TextEnabled || e.Author.Bot || !e.GuildID.IsValid() {
		return
	}
	matched, ok := trigger.MatchText(e.Content)
	if !ok {
		return
	}

	b.logger.Info("Text trigger matched",
		zap.String("guild_id", e.GuildID.String()),
		zap.String("user_id", e.Author.ID.String()),
		zap.String("matched", matched))

	b.phrases.HandlePhrase(clip.PhraseMatch{
		MatchedText: matched,
		GuildID:     e.GuildID.String(),
		RequesterID: e.Author.ID.String(),
		ChannelID:   e.ChannelID.String(),
		Origin:      clip.OriginText,
	})
}

// HandleReady records the bot's identity and joins voice in every guild it
// should listen in.
func (b *Bot) HandleReady(e *gateway.ReadyEvent) {
	b.self.Store(uint64(e.User.ID))
	b.ready.Store(true)

	guilds := b.guilds
	if len(guilds) == 0 {
		guilds = make([]discord.GuildID, 0, len(e.Guilds))
		for _, g := range e.Guilds {
			guilds = append(guilds, g.ID)
		}
	}

	b.logger.Info("Discord session ready",
		zap.String("user", e.User.Tag()),
		zap.Int("guilds", len(guilds)))

	b.spawn(func(ctx context.Context) {
		if err := b.joiner.JoinAll(ctx, guilds); err != nil {
			b.logger.Warn("Auto-join finished with errors", zap.Error(err))
		}
	})
}

// HandleGuildCreate joins voice once a guild's channels and voice states are
// known.
func (b *Bot) HandleGuildCreate(e *gateway.GuildCreateEvent) {
	if !b.wants(e.ID) {
		return
	}
	b.spawn(func(ctx context.Context) {
		if err := b.joiner.JoinGuild(ctx, e.ID); err != nil {
			b.logger.Warn("Failed to auto-join voice channel",
				zap.String("guild_id", e.ID.String()),
				zap.Error(err))
		}
	})
}

// HandleVoiceStateUpdate rejoins after the bot was disconnected.
func (b *Bot) HandleVoiceStateUpdate(e *gateway.VoiceStateUpdateEvent) {
	self := b.SelfID()
	if !self.IsValid() || e.UserID != self {
		return
	}
	b.spawn(func(ctx context.Context) {
		if err := b.joiner.HandleVoiceStateUpdate(ctx, e, self); err != nil {
			b.logger.Error("Failed to rejoin voice channel",
				zap.String("guild_id", e.GuildID.String()),
				zap.Error(err))
		}
	})
}
