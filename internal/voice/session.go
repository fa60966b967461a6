package voice

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
	"github.com/Raikerian/go-discord-clipper/internal/clip"
)

const readBackoff = 20 * time.Millisecond

// GuildSession is the bot's presence in one guild's voice channel: the
// connection, the speakers' retained audio and the pipelines feeding it.
type GuildSession struct {
	GuildID   discord.GuildID
	ChannelID discord.ChannelID
	JoinedAt  time.Time

	logger   *zap.Logger
	registry *capture.SessionRegistry
	ingestor *capture.Ingestor
	speakers *speakers

	conn   Conn
	cancel context.CancelFunc
	done   chan struct{}

	playMu sync.Mutex
}

// Registry holds the retained audio of every speaker.
func (g *GuildSession) Registry() *capture.SessionRegistry { return g.registry }

// Ingestor decodes the speakers' frames into the registry.
func (g *GuildSession) Ingestor() *capture.Ingestor { return g.ingestor }

// SpeakerMapped records which user sends ssrc and lets the user's stream
// start again after SpeakerLeft.
func (g *GuildSession) SpeakerMapped(ssrc uint32, userID discord.UserID) {
	g.speakers.set(ssrc, userID)
	g.ingestor.Begin(SourceFor(userID))
	g.logger.Debug("Speaker mapped",
		zap.Uint32("ssrc", ssrc),
		zap.String("user_id", userID.String()))
}

// SpeakerLeft ends the user's stream.
func (g *GuildSession) SpeakerLeft(userID discord.UserID) {
	g.speakers.forget(userID)
	g.ingestor.End(SourceFor(userID))
	g.logger.Debug("Speaker left", zap.String("user_id", userID.String()))
}

// Receiving reports whether the receive loop is still running.
func (g *GuildSession) Receiving() bool {
	if g.done == nil {
		return false
	}
	select {
	case <-g.done:
		return false
	default:
		return true
	}
}

func (g *GuildSession) start(ctx context.Context, conn Conn, sweep time.Duration) {
	ctx, g.cancel = context.WithCancel(ctx)
	g.conn = conn
	g.done = make(chan struct{})

	go g.receive(ctx)
	if sweep > 0 {
		go g.registry.RunSweeper(ctx, sweep)
	}
}

func (g *GuildSession) receive(ctx context.Context) {
	defer close(g.done)

	g.logger.Info("Started receiving audio")
	for {
		pkt, err := g.conn.ReadPacket()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				g.logger.Info("Stopped receiving audio")
				return
			}
			g.logger.Debug("Failed to read voice packet", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(readBackoff):
			}
			continue
		}

		userID, ok := g.speakers.lookup(pkt.SSRC)
		if !ok {
			g.logger.Debug("Dropping packet from unknown SSRC", zap.Uint32("ssrc", pkt.SSRC))
			continue
		}

		if err := g.ingestor.Push(SourceFor(userID), pkt.Opus); err != nil {
			if errors.Is(err, capture.ErrIngestorClosed) {
				return
			}
			g.logger.Debug("Failed to push voice packet",
				zap.String("user_id", userID.String()),
				zap.Error(err))
		}
	}
}

// close leaves the channel, stops every pipeline and drops the retained
// audio.
func (g *GuildSession) close(ctx context.Context) error {
	var errs []error
	if g.cancel != nil {
		g.cancel()
	}
	if g.conn != nil {
		if err := g.conn.Leave(ctx); err != nil {
			g.logger.Warn("Failed to leave voice channel cleanly", zap.Error(err))
		}
		select {
		case <-g.done:
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
	}
	if err := g.ingestor.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	g.registry.Reset()
	return errors.Join(errs...)
}

// play streams a stored clip into the channel. Replays in one guild run one
// at a time.
func (g *GuildSession) play(ctx context.Context, p *Player, c clip.LastClip) error {
	g.playMu.Lock()
	defer g.playMu.Unlock()
	if g.conn == nil {
		return ErrNotConnected
	}
	return p.Play(ctx, g.conn, c.PCM, c.Format)
}
