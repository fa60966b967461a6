// Package discord provides the gateway session, its cached state and the
// application ID.
package discord

import (
	"context"
	"errors"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/diamondburned/arikawa/v3/state/store/defaultstore"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/config"
)

// Intents are the gateway intents the clipper needs: guild and channel
// structure, voice states for auto-join, and message content for the text
// trigger.
const Intents = gateway.IntentGuilds |
	gateway.IntentGuildMembers |
	gateway.IntentGuildVoiceStates |
	gateway.IntentGuildMessages |
	gateway.IntentMessageContent

var (
	// ErrNoToken is returned by NewSession without a bot token.
	ErrNoToken = errors.New("discord.bot_token is not set")
	// ErrNoApplicationID is returned by ProvideApplicationID for a zero ID.
	ErrNoApplicationID = errors.New("discord.application_id is not set")
)

// Module provides Discord-related dependencies.
var Module = fx.Module("discord",
	fx.Provide(
		NewSession,
		NewState,
		ProvideApplicationID,
	),
)

// SessionParams holds dependencies for NewSession.
type SessionParams struct {
	fx.In
	Cfg    *config.Config
	LC     fx.Lifecycle
	Logger *zap.Logger
}

// NewSession creates the gateway session. It is opened on start and closed on
// stop.
func NewSession(params SessionParams) (*session.Session, error) {
	if params.Cfg.Discord.BotToken == "" {
		return nil, ErrNoToken
	}

	s := session.New("Bot " + params.Cfg.Discord.BotToken)
	s.AddIntents(Intents)

	params.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Logger.Info("Opening Discord session")
			return s.Open(ctx)
		},
		OnStop: func(context.Context) error {
			params.Logger.Info("Closing Discord session")
			return s.Close()
		},
	})

	return s, nil
}

// NewState wraps the session with an in-memory cache of guilds, channels,
// members and voice states.
func NewState(s *session.Session) *state.State {
	return state.NewFromSession(s, defaultstore.New())
}

// ProvideApplicationID extracts the ApplicationID from config.
func ProvideApplicationID(cfg *config.Config) (discord.AppID, error) {
	if cfg.Discord.ApplicationID == nil || !cfg.Discord.ApplicationID.IsValid() {
		return 0, ErrNoApplicationID
	}
	return discord.AppID(*cfg.Discord.ApplicationID), nil
}
