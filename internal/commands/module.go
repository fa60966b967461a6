// Package commands provides the slash commands and their Fx module.
package commands

import (
	"go.uber.org/fx"
)

// Module provides command-related dependencies.
var Module = fx.Module("commands",
	fx.Provide(
		NewCommandManager,
		ProvideClipService,
		ProvideVoiceStatus,
		asCommand(NewPingCommand),
		asCommand(NewVersionCommand),
		asCommand(NewClipCommand),
		asCommand(NewRecordCommand),
		asCommand(NewStopRecordingCommand),
		asCommand(NewReplayCommand),
	),
)

func asCommand(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(Command)),
		fx.ResultTags(`group:"commands"`),
	)
}
