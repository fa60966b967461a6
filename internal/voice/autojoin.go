package voice

import (
	"context"
	"errors"
	"sort"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Directory is the cached guild state auto-join picks channels from.
type Directory interface {
	Channels(guildID discord.GuildID) ([]discord.Channel, error)
	VoiceStates(guildID discord.GuildID) ([]discord.VoiceState, error)
	Member(guildID discord.GuildID, userID discord.UserID) (*discord.Member, error)
}

// PickChannel returns the voice channel with the most members, skipping
// channels that already contain a bot. Ties go to the channel listed
// first by position. ok is false when no channel has members.
func PickChannel(channels []discord.Channel, states []discord.VoiceState, isBot func(discord.VoiceState) bool) (discord.ChannelID, bool) {
	members := make(map[discord.ChannelID]int)
	hasBot := make(map[discord.ChannelID]bool)
	for _, vs := range states {
		if !vs.ChannelID.IsValid() {
			continue
		}
		if isBot(vs) {
			hasBot[vs.ChannelID] = true
			continue
		}
		members[vs.ChannelID]++
	}

	voice := make([]discord.Channel, 0, len(channels))
	for _, ch := range channels {
		if ch.Type == discord.GuildVoice {
			voice = append(voice, ch)
		}
	}
	sort.SliceStable(voice, func(i, j int) bool {
		if voice[i].Position != voice[j].Position {
			return voice[i].Position < voice[j].Position
		}
		return voice[i].ID < voice[j].ID
	})

	var (
		best  discord.ChannelID
		count int
	)
	for _, ch := range voice {
		if hasBot[ch.ID] {
			continue
		}
		if n := members[ch.ID]; n > count {
			best, count = ch.ID, n
		}
	}
	return best, count > 0
}

// AutoJoiner puts the bot into the busiest voice channel of a guild and
// back into it after a kick.
type AutoJoiner struct {
	logger  *zap.Logger
	dir     Directory
	manager *Manager
}

// NewAutoJoiner creates an AutoJoiner.
func NewAutoJoiner(logger *zap.Logger, dir Directory, manager *Manager) *AutoJoiner {
	return &AutoJoiner{
		logger:  logger,
		dir:     dir,
		manager: manager,
	}
}

// JoinGuild joins the busiest voice channel of guildID unless the bot is
// already listening there.
func (a *AutoJoiner) JoinGuild(ctx context.Context, guildID discord.GuildID) error {
	if _, ok := a.manager.Get(guildID); ok {
		return nil
	}

	channels, err := a.dir.Channels(guildID)
	if err != nil {
		return err
	}
	states, err := a.dir.VoiceStates(guildID)
	if err != nil {
		return err
	}

	channelID, ok := PickChannel(channels, states, func(vs discord.VoiceState) bool {
		return a.isBot(guildID, vs)
	})
	if !ok {
		a.logger.Debug("No occupied voice channel to join", zap.String("guild_id", guildID.String()))
		return nil
	}

	_, err = a.manager.Join(ctx, guildID, channelID)
	return err
}

// JoinAll runs JoinGuild for every guild concurrently.
func (a *AutoJoiner) JoinAll(ctx context.Context, guildIDs []discord.GuildID) error {
	var g errgroup.Group
	g.SetLimit(4)

	errs := make([]error, len(guildIDs))
	for i, id := range guildIDs {
		g.Go(func() error {
			if err := a.JoinGuild(ctx, id); err != nil {
				a.logger.Error("Failed to auto-join voice channel",
					zap.String("guild_id", id.String()),
					zap.Error(err))
				errs[i] = err
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// HandleVoiceStateUpdate rejoins when self was disconnected from a channel
// the bot did not leave on its own. The guild's retained audio is dropped
// first.
func (a *AutoJoiner) HandleVoiceStateUpdate(ctx context.Context, e *gateway.VoiceStateUpdateEvent, self discord.UserID) error {
	if e.UserID != self || e.ChannelID.IsValid() {
		return nil
	}
	gs, ok := a.manager.Get(e.GuildID)
	if !ok {
		return nil
	}

	a.logger.Warn("Disconnected from voice channel, attempting to rejoin",
		zap.String("guild_id", e.GuildID.String()),
		zap.String("channel_id", gs.ChannelID.String()))

	if err := a.manager.Leave(ctx, e.GuildID); err != nil && !errors.Is(err, ErrNotConnected) {
		a.logger.Warn("Failed to clean up voice session", zap.Error(err))
	}
	return a.JoinGuild(ctx, e.GuildID)
}

func (a *AutoJoiner) isBot(guildID discord.GuildID, vs discord.VoiceState) bool {
	if vs.Member != nil {
		return vs.Member.User.Bot
	}
	m, err := a.dir.Member(guildID, vs.UserID)
	if err != nil {
		return false
	}
	return m.User.Bot
}
