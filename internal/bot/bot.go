// Package bot wires Discord gateway events to the commands, the text trigger
// and voice auto-join.
package bot

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/commands"
	"github.com/Raikerian/go-discord-clipper/internal/config"
)

// PhraseHandler clips on a detected trigger phrase.
type PhraseHandler interface {
	HandlePhrase(m clip.PhraseMatch)
}

// Joiner moves the bot into voice channels.
type Joiner interface {
	JoinAll(ctx context.Context, guildIDs []discord.GuildID) error
	JoinGuild(ctx context.Context, guildID discord.GuildID) error
	HandleVoiceStateUpdate(ctx context.Context, e *gateway.VoiceStateUpdateEvent, self discord.UserID) error
}

// Deps holds the collaborators of a Bot.
type Deps struct {
	Config    *config.Config
	Logger    *zap.Logger
	Commands  *commands.CommandManager
	Responder commands.Responder
	Phrases   PhraseHandler
	Joiner    Joiner
}

// Bot represents the Discord bot.
type Bot struct {
	cfg       *config.Config
	logger    *zap.Logger
	cmds      *commands.CommandManager
	responder commands.Responder
	phrases   PhraseHandler
	joiner    Joiner

	guilds   []discord.GuildID
	guildSet map[discord.GuildID]struct{}

	self  atomic.Uint64
	ready atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Bot. Invalid configured guild IDs are logged and skipped.
func New(deps Deps) *Bot {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	guilds, errs := deps.Config.GuildIDs()
	for _, err := range errs {
		logger.Error("Skipping configured guild", zap.Error(err))
	}
	set := make(map[discord.GuildID]struct{}, len(guilds))
	for _, id := range guilds {
		set[id] = struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Bot{
		cfg:       deps.Config,
		logger:    logger,
		cmds:      deps.Commands,
		responder: deps.Responder,
		phrases:   deps.Phrases,
		joiner:    deps.Joiner,
		guilds:    guilds,
		guildSet:  set,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start registers the slash commands for the configured guilds.
func (b *Bot) Start(ctx context.Context) error {
	if len(b.guilds) == 0 {
		b.logger.Warn("No guild_ids configured; slash commands are not registered")
		return nil
	}
	b.cmds.RegisterCommands(b.guilds)
	return nil
}

// Stop waits for in-flight event work and unregisters the slash commands.
func (b *Bot) Stop(ctx context.Context) error {
	b.cancel()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("Timed out waiting for event handlers", zap.Error(ctx.Err()))
	}

	if len(b.guilds) > 0 {
		b.cmds.UnregisterAllCommands(b.guilds)
	}
	return nil
}

// Ready reports whether the gateway delivered its Ready event.
func (b *Bot) Ready() bool {
	return b.ready.Load()
}

// SelfID is the bot's user ID, zero before Ready.
func (b *Bot) SelfID() discord.UserID {
	return discord.UserID(b.self.Load())
}

// wants reports whether the bot should auto-join guildID. With no configured
// guilds every guild qualifies.
func (b *Bot) wants(guildID discord.GuildID) bool {
	if len(b.guildSet) == 0 {
		return true
	}
	_, ok := b.guildSet[guildID]
	return ok
}

func (b *Bot) spawn(fn func(ctx context.Context)) {
	if b.ctx.Err() != nil {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		fn(b.ctx)
	}()
}
