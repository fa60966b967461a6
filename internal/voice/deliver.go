package voice

import (
	"context"
	"fmt"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/sendpart"

	"github.com/Raikerian/go-discord-clipper/internal/clip"
)

// Messenger is the part of the Discord API clips are sent through.
type Messenger interface {
	CreatePrivateChannel(recipient discord.UserID) (*discord.Channel, error)
	SendMessageComplex(channelID discord.ChannelID, data api.SendMessageData) (*discord.Message, error)
}

// Deliverers are the clip destinations of the bot.
type Deliverers struct {
	DM      clip.Deliverer
	Channel clip.Deliverer
}

// NewDeliverers creates the DM and channel deliverers sending through m.
func NewDeliverers(m Messenger) Deliverers {
	return Deliverers{
		DM:      &DMDeliverer{messenger: m},
		Channel: &ChannelDeliverer{messenger: m},
	}
}

// For picks the deliverer of req: its channel when set, else the requester's
// DMs.
func (d Deliverers) For(req clip.Request) clip.Deliverer {
	if req.ChannelID != "" {
		return d.Channel
	}
	return d.DM
}

// DMDeliverer sends clips to the requester's direct messages.
type DMDeliverer struct {
	messenger Messenger
}

func (d *DMDeliverer) Target() string { return clip.TargetDM }

func (d *DMDeliverer) Deliver(ctx context.Context, req clip.Request, a clip.Artifact) error {
	userID, err := discord.ParseSnowflake(req.RequesterID)
	if err != nil {
		return fmt.Errorf("invalid requester %q: %w", req.RequesterID, err)
	}

	dm, err := d.messenger.CreatePrivateChannel(discord.UserID(userID))
	if err != nil {
		return fmt.Errorf("failed to open DM channel: %w", err)
	}

	_, err = d.messenger.SendMessageComplex(dm.ID, api.SendMessageData{
		Content: caption(req),
		Files:   []sendpart.File{{Name: a.Filename, Reader: a.Reader}},
	})
	return err
}

// ChannelDeliverer posts clips into req.ChannelID.
type ChannelDeliverer struct {
	messenger Messenger
}

func (d *ChannelDeliverer) Target() string { return clip.TargetChannel }

func (d *ChannelDeliverer) Deliver(ctx context.Context, req clip.Request, a clip.Artifact) error {
	channelID, err := discord.ParseSnowflake(req.ChannelID)
	if err != nil {
		return fmt.Errorf("invalid channel %q: %w", req.ChannelID, err)
	}

	data := api.SendMessageData{
		Content: caption(req),
		Files:   []sendpart.File{{Name: a.Filename, Reader: a.Reader}},
	}
	if userID, err := discord.ParseSnowflake(req.RequesterID); err == nil {
		data.Content = fmt.Sprintf("<@%s> %s", userID, data.Content)
		data.AllowedMentions = &api.AllowedMentions{Users: []discord.UserID{discord.UserID(userID)}}
	}

	_, err = d.messenger.SendMessageComplex(discord.ChannelID(channelID), data)
	return err
}

func caption(req clip.Request) string {
	if req.Kind == clip.KindStopRecording {
		return "Here is your recording:"
	}
	return fmt.Sprintf("Here is your clip of the last %d seconds:", req.Seconds())
}
