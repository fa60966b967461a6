package voice

import (
	"context"
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/voice"
	"github.com/diamondburned/arikawa/v3/voice/voicegateway"
	"go.uber.org/zap"
)

// Conn is a joined voice channel.
type Conn interface {
	// ReadPacket blocks for the next received frame. It fails once the
	// connection is left.
	ReadPacket() (AudioPacket, error)
	WriteOpus(frame []byte) error
	Leave(ctx context.Context) error
}

// Events receives the voice gateway events of one connection.
type Events interface {
	SpeakerMapped(ssrc uint32, userID discord.UserID)
	SpeakerLeft(userID discord.UserID)
}

// Dialer joins voice channels.
type Dialer interface {
	Dial(ctx context.Context, channelID discord.ChannelID, events Events) (Conn, error)
}

type discordDialer struct {
	logger  *zap.Logger
	session *session.Session
}

// NewDialer creates a Dialer joining channels through the bot's gateway
// session.
func NewDialer(logger *zap.Logger, session *session.Session) Dialer {
	return &discordDialer{
		logger:  logger,
		session: session,
	}
}

func (d *discordDialer) Dial(ctx context.Context, channelID discord.ChannelID, events Events) (Conn, error) {
	channel, err := d.session.Channel(channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel info: %w", err)
	}

	if channel.Type != discord.GuildVoice && channel.Type != discord.GuildStageVoice {
		return nil, fmt.Errorf("channel %s is not a voice channel", channelID)
	}

	vs, err := voice.NewSession(d.session)
	if err != nil {
		return nil, fmt.Errorf("failed to create voice session: %w", err)
	}

	conn := &sessionConn{vs: vs}
	conn.detach = append(conn.detach,
		vs.AddHandler(func(e *voicegateway.SpeakingEvent) {
			events.SpeakerMapped(e.SSRC, e.UserID)
		}),
		vs.AddHandler(func(e *voicegateway.ClientDisconnectEvent) {
			events.SpeakerLeft(e.UserID)
		}),
	)

	// Not deafened: a deafened bot receives no audio.
	if err := vs.JoinChannel(ctx, channelID, false, false); err != nil {
		conn.detachAll()
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}

	if err := vs.Speaking(ctx, voicegateway.Microphone); err != nil {
		_ = vs.Leave(ctx)
		conn.detachAll()
		return nil, fmt.Errorf("failed to set speaking mode: %w", err)
	}

	// The UDP socket only starts receiving after the first write.
	_, _ = vs.Write([]byte{})

	d.logger.Info("Joined voice channel",
		zap.String("channel_id", channelID.String()),
		zap.String("guild_id", channel.GuildID.String()))

	return conn, nil
}

type sessionConn struct {
	vs     *voice.Session
	detach []func()
}

func (c *sessionConn) ReadPacket() (AudioPacket, error) {
	p, err := c.vs.ReadPacket()
	if err != nil {
		return AudioPacket{}, err
	}
	return NewAudioPacket(p), nil
}

func (c *sessionConn) WriteOpus(frame []byte) error {
	_, err := c.vs.Write(frame)
	return err
}

func (c *sessionConn) Leave(ctx context.Context) error {
	c.detachAll()
	return c.vs.Leave(ctx)
}

func (c *sessionConn) detachAll() {
	for _, rm := range c.detach {
		rm()
	}
	c.detach = nil
}
