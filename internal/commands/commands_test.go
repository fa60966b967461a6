package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/commands"
	"github.com/Raikerian/go-discord-clipper/internal/config"
	"github.com/Raikerian/go-discord-clipper/internal/voice"
	"github.com/Raikerian/go-discord-clipper/pkg/test"
)

type fakeResponder struct {
	responses []api.InteractionResponse
	followUps []api.InteractionResponseData
}

func (f *fakeResponder) RespondInteraction(_ discord.InteractionID, _ string, resp api.InteractionResponse) error {
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeResponder) FollowUpInteraction(_ discord.AppID, _ string, data api.InteractionResponseData) (*discord.Message, error) {
	f.followUps = append(f.followUps, data)
	return &discord.Message{}, nil
}

func (f *fakeResponder) lastContent(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.responses)
	data := f.responses[len(f.responses)-1].Data
	require.NotNil(t, data)
	require.NotNil(t, data.Content)
	return data.Content.Val
}

func (f *fakeResponder) followUpContent(t *testing.T) string {
	t.Helper()
	require.Len(t, f.followUps, 1)
	require.NotNil(t, f.followUps[0].Content)
	return f.followUps[0].Content.Val
}

func guildEvent(guildID discord.GuildID) *gateway.InteractionCreateEvent {
	return &gateway.InteractionCreateEvent{
		InteractionEvent: discord.InteractionEvent{
			ID:      1,
			AppID:   2,
			GuildID: guildID,
			Token:   "token",
			Member:  &discord.Member{User: discord.User{ID: 42}},
		},
	}
}

func secondsOption(raw string) *discord.CommandInteraction {
	return &discord.CommandInteraction{
		Name: "clip",
		Options: []discord.CommandInteractionOption{
			{Name: "seconds", Type: discord.IntegerOptionType, Value: json.Raw(raw)},
		},
	}
}

func TestClipCommandOptions(t *testing.T) {
	cmd := commands.NewClipCommand(zap.NewNop(), config.Default(), test.NewMockClipService(t))

	opts := cmd.Options()
	require.Len(t, opts, 1)
	seconds, ok := opts[0].(*discord.IntegerOption)
	require.True(t, ok)
	assert.Equal(t, "seconds", seconds.OptionName)
	assert.False(t, seconds.Required)
	require.NotNil(t, seconds.Min)
	assert.Equal(t, 1, *seconds.Min)
	require.NotNil(t, seconds.Max)
	assert.Equal(t, 120, *seconds.Max)
	assert.Contains(t, seconds.Description, "default 30")
}

func TestClipCommandExecute(t *testing.T) {
	tests := map[string]struct {
		guild       discord.GuildID
		data        *discord.CommandInteraction
		wantSeconds int
		outcome     clip.Outcome
		err         error
		wantReply   string
		wantFollow  string
	}{
		"default duration": {
			guild:       7,
			data:        &discord.CommandInteraction{Name: "clip"},
			wantSeconds: 30,
			outcome:     clip.Outcome{Message: "Clip sent to your DMs."},
			wantFollow:  "Clip sent to your DMs.",
		},
		"explicit duration": {
			guild:       7,
			data:        secondsOption("45"),
			wantSeconds: 45,
			outcome:     clip.Outcome{Message: "done"},
			wantFollow:  "done",
		},
		"service error": {
			guild:       7,
			data:        secondsOption("10"),
			wantSeconds: 10,
			err:         voice.ErrNotConnected,
			wantFollow:  "I'm not listening in a voice channel.",
		},
		"out of range": {
			guild:     7,
			data:      secondsOption("500"),
			wantReply: "That clip length is not allowed.",
		},
		"outside a guild": {
			data:      &discord.CommandInteraction{Name: "clip"},
			wantReply: "These commands only work in a server.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc := test.NewMockClipService(t)
			if tt.wantSeconds > 0 {
				svc.EXPECT().Clip(mock.Anything, mock.MatchedBy(func(req clip.Request) bool {
					return req.Kind == clip.KindClip &&
						req.Duration == time.Duration(tt.wantSeconds)*time.Second &&
						req.GuildID == "7" &&
						req.RequesterID == "42" &&
						req.Origin == clip.OriginCommand &&
						req.ChannelID == ""
				})).Return(tt.outcome, tt.err)
			}

			r := &fakeResponder{}
			cmd := commands.NewClipCommand(zap.NewNop(), config.Default(), svc)
			require.NoError(t, cmd.Execute(context.Background(), r, guildEvent(tt.guild), tt.data))

			if tt.wantReply != "" {
				assert.Equal(t, tt.wantReply, r.lastContent(t))
				assert.Empty(t, r.followUps)
				return
			}
			require.Len(t, r.responses, 1)
			assert.Equal(t, api.DeferredMessageInteractionWithSource, r.responses[0].Type)
			assert.Equal(t, tt.wantFollow, r.followUpContent(t))
			assert.Equal(t, discord.EphemeralMessage, r.followUps[0].Flags)
		})
	}
}

func TestRecordCommands(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		svc := test.NewMockClipService(t)
		svc.EXPECT().StartRecording(mock.MatchedBy(func(req clip.Request) bool {
			return req.Kind == clip.KindStartRecording && req.GuildID == "7"
		})).Return(nil)

		r := &fakeResponder{}
		cmd := commands.NewRecordCommand(zap.NewNop(), svc)
		require.NoError(t, cmd.Execute(context.Background(), r, guildEvent(7), &discord.CommandInteraction{}))
		assert.Equal(t, "🔴 Recording started. Use /stoprecording to get the audio.", r.lastContent(t))
	})

	t.Run("already recording", func(t *testing.T) {
		svc := test.NewMockClipService(t)
		svc.EXPECT().StartRecording(mock.Anything).Return(clip.ErrRecordingActive)

		r := &fakeResponder{}
		cmd := commands.NewRecordCommand(zap.NewNop(), svc)
		require.NoError(t, cmd.Execute(context.Background(), r, guildEvent(7), &discord.CommandInteraction{}))
		assert.Equal(t, "A recording is already running in this server.", r.lastContent(t))
	})

	t.Run("stop", func(t *testing.T) {
		svc := test.NewMockClipService(t)
		svc.EXPECT().StopRecording(mock.Anything, mock.MatchedBy(func(req clip.Request) bool {
			return req.Kind == clip.KindStopRecording
		})).Return(clip.Outcome{Message: "Recording sent to your DMs."}, nil)

		r := &fakeResponder{}
		cmd := commands.NewStopRecordingCommand(zap.NewNop(), svc)
		require.NoError(t, cmd.Execute(context.Background(), r, guildEvent(7), &discord.CommandInteraction{}))
		assert.Equal(t, "Recording sent to your DMs.", r.followUpContent(t))
	})

	t.Run("stop without recording", func(t *testing.T) {
		svc := test.NewMockClipService(t)
		svc.EXPECT().StopRecording(mock.Anything, mock.Anything).Return(clip.Outcome{}, clip.ErrNoRecording)

		r := &fakeResponder{}
		cmd := commands.NewStopRecordingCommand(zap.NewNop(), svc)
		require.NoError(t, cmd.Execute(context.Background(), r, guildEvent(7), &discord.CommandInteraction{}))
		assert.Equal(t, "There is no recording running in this server.", r.followUpContent(t))
	})
}

func TestReplayCommand(t *testing.T) {
	tests := map[string]struct {
		err  error
		want string
	}{
		"replaying": {
			want: "▶️ Replaying your last saved audio.",
		},
		"not connected": {
			err:  voice.ErrNotConnected,
			want: "I'm not in a voice channel.",
		},
		"no clip": {
			err:  voice.ErrNoClip,
			want: "You don't have a clip to replay.",
		},
		"wrapped not connected": {
			err:  errors.Join(errors.New("guild 7"), voice.ErrNotConnected),
			want: "I'm not in a voice channel.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			svc := test.NewMockClipService(t)
			svc.EXPECT().Replay("7", "42").Return(3*time.Second, tt.err)

			r := &fakeResponder{}
			cmd := commands.NewReplayCommand(zap.NewNop(), svc)
			require.NoError(t, cmd.Execute(context.Background(), r, guildEvent(7), &discord.CommandInteraction{}))
			assert.Equal(t, tt.want, r.lastContent(t))
		})
	}
}

func TestCommandManagerCreateData(t *testing.T) {
	svc := test.NewMockClipService(t)
	cm := commands.NewCommandManager(commands.CommandManagerParams{
		Logger: zap.NewNop(),
		Commands: []commands.Command{
			commands.NewClipCommand(zap.NewNop(), config.Default(), svc),
			commands.NewRecordCommand(zap.NewNop(), svc),
			commands.NewStopRecordingCommand(zap.NewNop(), svc),
			commands.NewReplayCommand(zap.NewNop(), svc),
		},
	})

	data := cm.CreateData()
	names := make([]string, 0, len(data))
	for _, d := range data {
		names = append(names, d.Name)
		assert.NotEmpty(t, d.Description)
	}
	assert.Equal(t, []string{"clip", "record", "stoprecording", "replay"}, names)
}

type fakeStatus struct {
	channel discord.ChannelID
	since   time.Time
}

func (f fakeStatus) Listening(discord.GuildID) (discord.ChannelID, time.Time, bool) {
	return f.channel, f.since, f.channel.IsValid()
}

func TestPingCommand(t *testing.T) {
	tests := map[string]struct {
		guild  discord.GuildID
		status fakeStatus
		want   string
	}{
		"listening": {
			guild:  7,
			status: fakeStatus{channel: 55, since: time.Now().Add(-5 * time.Minute)},
			want:   "Pong! Listening in <#55> for 5m0s.",
		},
		"not in voice": {
			guild: 7,
			want:  "Pong! I'm not in a voice channel right now.",
		},
		"direct message": {
			want: "Pong!",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := &fakeResponder{}
			cmd := commands.NewPingCommand(tt.status)
			require.NoError(t, cmd.Execute(context.Background(), r, guildEvent(tt.guild), &discord.CommandInteraction{}))
			assert.Equal(t, tt.want, r.lastContent(t))
		})
	}
}

func TestVersionCommand(t *testing.T) {
	r := &fakeResponder{}
	cmd := commands.NewVersionCommand()
	require.NoError(t, cmd.Execute(context.Background(), r, guildEvent(7), &discord.CommandInteraction{}))
	assert.Contains(t, r.lastContent(t), "Version: ")
}
