package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
)

// Responder is the part of the Discord API commands answer through.
type Responder interface {
	RespondInteraction(id discord.InteractionID, token string, resp api.InteractionResponse) error
	FollowUpInteraction(appID discord.AppID, token string, data api.InteractionResponseData) (*discord.Message, error)
}

// Command defines the interface for slash commands.
type Command interface {
	Name() string
	Description() string
	Options() []discord.CommandOption
	Execute(ctx context.Context, r Responder, e *gateway.InteractionCreateEvent, data *discord.CommandInteraction) error
}

func respondEphemeral(r Responder, e *gateway.InteractionCreateEvent, content string) error {
	return r.RespondInteraction(e.ID, e.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: &api.InteractionResponseData{
			Content: option.NewNullableString(content),
			Flags:   discord.EphemeralMessage,
		},
	})
}

// deferEphemeral acknowledges the interaction; the answer follows with
// followUp.
func deferEphemeral(r Responder, e *gateway.InteractionCreateEvent) error {
	return r.RespondInteraction(e.ID, e.Token, api.InteractionResponse{
		Type: api.DeferredMessageInteractionWithSource,
		Data: &api.InteractionResponseData{
			Flags: discord.EphemeralMessage,
		},
	})
}

func followUp(r Responder, e *gateway.InteractionCreateEvent, content string) error {
	_, err := r.FollowUpInteraction(e.AppID, e.Token, api.InteractionResponseData{
		Content: option.NewNullableString(content),
		Flags:   discord.EphemeralMessage,
	})
	return err
}
