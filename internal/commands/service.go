package commands

import (
	"context"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"

	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/voice"
)

const guildOnly = "These commands only work in a server."

// ClipService runs the clip requests of the voice commands.
type ClipService interface {
	Clip(ctx context.Context, req clip.Request) (clip.Outcome, error)
	StartRecording(req clip.Request) error
	StopRecording(ctx context.Context, req clip.Request) (clip.Outcome, error)
	Replay(guildID, userID string) (time.Duration, error)
}

// ProvideClipService exposes the voice service to the commands.
func ProvideClipService(s *voice.Service) ClipService {
	return s
}

// ProvideVoiceStatus reports the manager's guild sessions to /ping.
func ProvideVoiceStatus(m *voice.Manager) VoiceStatus {
	return managerStatus{m: m}
}

type managerStatus struct {
	m *voice.Manager
}

func (s managerStatus) Listening(guildID discord.GuildID) (discord.ChannelID, time.Time, bool) {
	gs, ok := s.m.Get(guildID)
	if !ok {
		return 0, time.Time{}, false
	}
	return gs.ChannelID, gs.JoinedAt, true
}

func newRequest(e *gateway.InteractionCreateEvent, kind clip.Kind) clip.Request {
	return clip.Request{
		Kind:        kind,
		GuildID:     e.GuildID.String(),
		RequesterID: e.SenderID().String(),
		Origin:      clip.OriginCommand,
	}
}
