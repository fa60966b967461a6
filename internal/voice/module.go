// Package voice connects guild voice channels to audio capture and delivers
// clips back through Discord.
package voice

import (
	"context"
	"fmt"

	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/state"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/observe"
)

// Module provides voice sessions, auto-join, delivery and the clip service.
var Module = fx.Module("voice",
	fx.Provide(
		NewDialer,
		ProvideMessenger,
		NewDeliverers,
		ProvidePlayer,
		NewManager,
		ProvideAutoJoiner,
		NewService,
		fx.Annotate(
			NewReadinessChecker,
			fx.ResultTags(`group:"readiness"`),
		),
	),
)

// ProvideMessenger exposes the session's REST client as a Messenger.
func ProvideMessenger(s *session.Session) Messenger {
	return s
}

// ProvidePlayer creates the replay Player.
func ProvidePlayer(logger *zap.Logger) *Player {
	return NewPlayer(PlayerParams{Logger: logger})
}

// ProvideAutoJoiner creates an AutoJoiner reading the cached state.
func ProvideAutoJoiner(logger *zap.Logger, st *state.State, m *Manager) *AutoJoiner {
	return NewAutoJoiner(logger, st, m)
}

// NewReadinessChecker fails while any guild session lost its receive loop.
func NewReadinessChecker(m *Manager) observe.Checker {
	return observe.Checker{
		Name: "voice",
		Check: func(context.Context) error {
			for _, gs := range m.Sessions() {
				if !gs.Receiving() {
					return fmt.Errorf("guild %s is not receiving audio", gs.GuildID)
				}
			}
			return nil
		},
	}
}
