package commands

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
)

// AppVersion is the version of the application, set at build time with
// -ldflags "-X .../internal/commands.AppVersion=...". When unset the module
// version from the build info is used.
var AppVersion = ""

// VersionCommand is a command that responds with the application version.
type VersionCommand struct {
	version string
}

// NewVersionCommand creates a new VersionCommand instance.
func NewVersionCommand() Command {
	return &VersionCommand{version: buildVersion()}
}

func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		if AppVersion != "" {
			return AppVersion
		}
		return "dev"
	}
	v := AppVersion
	if v == "" {
		v = info.Main.Version
	}
	if v == "" || v == "(devel)" {
		v = "dev"
	}
	return fmt.Sprintf("%s (%s)", v, info.GoVersion)
}

func (c *VersionCommand) Name() string {
	return "version"
}

func (c *VersionCommand) Description() string {
	return "Displays the current version of the bot."
}

func (c *VersionCommand) Options() []discord.CommandOption {
	return nil
}

func (c *VersionCommand) Execute(ctx context.Context, r Responder, e *gateway.InteractionCreateEvent, data *discord.CommandInteraction) error {
	return respondEphemeral(r, e, "Version: "+c.version)
}
