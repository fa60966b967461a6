package bot

import (
	"context"
	"errors"

	"github.com/diamondburned/arikawa/v3/state"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/commands"
	"github.com/Raikerian/go-discord-clipper/internal/config"
	"github.com/Raikerian/go-discord-clipper/internal/observe"
	"github.com/Raikerian/go-discord-clipper/internal/voice"
)

// Module provides bot service dependencies.
var Module = fx.Module("bot",
	fx.Provide(
		NewBot,
		fx.Annotate(
			NewReadinessChecker,
			fx.ResultTags(`group:"readiness"`),
		),
	),
)

// NewBotParameters holds dependencies for NewBot.
type NewBotParameters struct {
	fx.In

	Cfg      *config.Config
	State    *state.State
	Logger   *zap.Logger
	Commands *commands.CommandManager
	Service  *voice.Service
	Joiner   *voice.AutoJoiner
}

// NewBot creates the Bot and subscribes it to the gateway. Handlers are added
// to the state so its cache is current when they run.
func NewBot(params NewBotParameters) (*Bot, error) {
	if params.State == nil {
		return nil, errors.New("state provided to NewBot is nil")
	}

	b := New(Deps{
		Config:    params.Cfg,
		Logger:    params.Logger,
		Commands:  params.Commands,
		Responder: params.State,
		Phrases:   params.Service,
		Joiner:    params.Joiner,
	})

	params.State.AddHandler(b.HandleInteraction)
	params.State.AddHandler(b.HandleMessage)
	params.State.AddHandler(b.HandleReady)
	params.State.AddHandler(b.HandleGuildCreate)
	params.State.AddHandler(b.HandleVoiceStateUpdate)

	params.Logger.Info("NewBot created successfully")
	return b, nil
}

// NewReadinessChecker fails until the gateway is ready.
func NewReadinessChecker(b *Bot) observe.Checker {
	return observe.Checker{
		Name: "discord",
		Check: func(context.Context) error {
			if !b.Ready() {
				return errors.New("gateway not ready")
			}
			return nil
		},
	}
}
