package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/trigger"
)

// ErrNotConnected is returned for guilds the bot is not listening in.
var ErrNotConnected = errors.New("voice: not connected in this guild")

// PhraseHandler receives the phrase matches of every guild session.
type PhraseHandler func(clip.PhraseMatch)

// LeaveHandler is called after a guild session was closed.
type LeaveHandler func(discord.GuildID)

// ManagerParams holds dependencies for NewManager.
type ManagerParams struct {
	fx.In
	LC      fx.Lifecycle `optional:"true"`
	Logger  *zap.Logger
	Dialer  Dialer
	Factory *capture.Factory
	// Trigger is nil when voice triggers are disabled.
	Trigger *trigger.VoiceTrigger `optional:"true"`
}

// Manager owns one GuildSession per guild.
type Manager struct {
	logger  *zap.Logger
	dialer  Dialer
	factory *capture.Factory
	trigger *trigger.VoiceTrigger

	ctx    context.Context
	cancel context.CancelFunc

	// joinMu serializes joins and leaves; mu guards the map only.
	joinMu   sync.Mutex
	mu       sync.RWMutex
	sessions map[discord.GuildID]*GuildSession
	onPhrase PhraseHandler
	onLeave  LeaveHandler
}

// NewManager creates a Manager. With a lifecycle, every session is closed on
// stop.
func NewManager(params ManagerParams) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		logger:   params.Logger,
		dialer:   params.Dialer,
		factory:  params.Factory,
		trigger:  params.Trigger,
		ctx:      ctx,
		cancel:   cancel,
		sessions: make(map[discord.GuildID]*GuildSession),
	}
	if params.LC != nil {
		params.LC.Append(fx.Hook{
			OnStop: m.Shutdown,
		})
	}
	return m
}

// OnPhrase sets the handler of voice trigger matches.
func (m *Manager) OnPhrase(h PhraseHandler) {
	m.mu.Lock()
	m.onPhrase = h
	m.mu.Unlock()
}

// OnLeave sets the handler called whenever a guild session closes, including
// the leave before a rejoin.
func (m *Manager) OnLeave(h LeaveHandler) {
	m.mu.Lock()
	m.onLeave = h
	m.mu.Unlock()
}

func (m *Manager) firePhrase(match clip.PhraseMatch) {
	m.mu.RLock()
	h := m.onPhrase
	m.mu.RUnlock()
	if h == nil {
		m.logger.Warn("Voice trigger matched but no handler is set")
		return
	}
	h(match)
}

// Join connects to channelID and starts capturing. Joining the channel the
// guild is already in returns the existing session; joining another channel
// replaces it.
func (m *Manager) Join(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (*GuildSession, error) {
	m.joinMu.Lock()
	defer m.joinMu.Unlock()

	if m.ctx.Err() != nil {
		return nil, errors.New("voice manager is shut down")
	}

	if gs, ok := m.Get(guildID); ok {
		if gs.ChannelID == channelID {
			return gs, nil
		}
		if err := m.leaveLocked(ctx, guildID); err != nil && !errors.Is(err, ErrNotConnected) {
			return nil, err
		}
	}

	log := m.logger.With(
		zap.String("guild_id", guildID.String()),
		zap.String("channel_id", channelID.String()),
	)
	gs := &GuildSession{
		GuildID:   guildID,
		ChannelID: channelID,
		JoinedAt:  time.Now(),
		logger:    log,
		registry:  m.factory.NewRegistry(),
		speakers:  newSpeakers(),
	}

	var hook capture.StreamEndHook
	if m.trigger != nil {
		hook = m.trigger.Hook(m.ctx, guildID.String(), m.firePhrase)
	}
	gs.ingestor = m.factory.NewIngestor(gs.registry, log, hook)

	conn, err := m.dialer.Dial(ctx, channelID, gs)
	if err != nil {
		_ = gs.ingestor.Shutdown(ctx)
		return nil, fmt.Errorf("failed to join voice channel %s: %w", channelID, err)
	}
	gs.start(m.ctx, conn, m.factory.Settings().SweepInterval)

	m.mu.Lock()
	m.sessions[guildID] = gs
	m.mu.Unlock()

	log.Info("Voice session created")
	return gs, nil
}

// Leave disconnects guildID and drops its retained audio.
func (m *Manager) Leave(ctx context.Context, guildID discord.GuildID) error {
	m.joinMu.Lock()
	defer m.joinMu.Unlock()
	return m.leaveLocked(ctx, guildID)
}

func (m *Manager) leaveLocked(ctx context.Context, guildID discord.GuildID) error {
	m.mu.Lock()
	gs, ok := m.sessions[guildID]
	delete(m.sessions, guildID)
	onLeave := m.onLeave
	m.mu.Unlock()

	if !ok {
		return ErrNotConnected
	}

	err := gs.close(ctx)
	gs.logger.Info("Voice session ended", zap.Duration("duration", time.Since(gs.JoinedAt)))
	if onLeave != nil {
		onLeave(guildID)
	}
	return err
}

// Get returns the session of guildID.
func (m *Manager) Get(guildID discord.GuildID) (*GuildSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	gs, ok := m.sessions[guildID]
	return gs, ok
}

// Sessions returns a copy of the active sessions.
func (m *Manager) Sessions() []*GuildSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*GuildSession, 0, len(m.sessions))
	for _, gs := range m.sessions {
		out = append(out, gs)
	}
	return out
}

// Shutdown leaves every guild.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.joinMu.Lock()
	defer m.joinMu.Unlock()

	m.cancel()

	m.mu.Lock()
	ids := make([]discord.GuildID, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var g errgroup.Group
	for _, id := range ids {
		g.Go(func() error {
			return m.leaveLocked(ctx, id)
		})
	}
	return g.Wait()
}
