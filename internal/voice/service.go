package voice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/clip"
	"github.com/Raikerian/go-discord-clipper/internal/config"
)

// ErrNoClip is returned by Replay when the user has no stored clip.
var ErrNoClip = errors.New("voice: no clip to replay")

const phraseClipTimeout = 2 * time.Minute

// UserMessage renders err for the person who issued a command.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotConnected):
		return "I'm not listening in a voice channel."
	case errors.Is(err, ErrNoClip):
		return "You don't have a clip to replay."
	default:
		return clip.UserMessage(err)
	}
}

// ServiceParams holds dependencies for NewService.
type ServiceParams struct {
	fx.In
	LC         fx.Lifecycle `optional:"true"`
	Cfg        *config.Config
	Logger     *zap.Logger
	Manager    *Manager
	Assembler  *clip.Assembler
	Recorder   *clip.Recorder
	LastClips  *clip.LastClips
	Player     *Player
	Messenger  Messenger
	Deliverers Deliverers
}

// Service runs clip, recording and replay requests against the guild
// sessions.
type Service struct {
	logger       *zap.Logger
	manager      *Manager
	assembler    *clip.Assembler
	recorder     *clip.Recorder
	lastClips    *clip.LastClips
	player       *Player
	messenger    Messenger
	deliverers   Deliverers
	voiceChannel discord.ChannelID

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates a Service and routes the manager's voice trigger
// matches into it.
func NewService(params ServiceParams) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		logger:       params.Logger,
		manager:      params.Manager,
		assembler:    params.Assembler,
		recorder:     params.Recorder,
		lastClips:    params.LastClips,
		player:       params.Player,
		messenger:    params.Messenger,
		deliverers:   params.Deliverers,
		voiceChannel: discord.ChannelID(params.Cfg.Trigger.VoiceChannelID),
		ctx:          ctx,
		cancel:       cancel,
	}
	s.manager.OnPhrase(s.HandlePhrase)
	s.manager.OnLeave(s.sessionClosed)

	if params.LC != nil {
		params.LC.Append(fx.Hook{
			OnStop: s.Shutdown,
		})
	}
	return s
}

// Clip assembles the trailing req.Duration of the guild's audio.
func (s *Service) Clip(ctx context.Context, req clip.Request) (clip.Outcome, error) {
	gs, err := s.session(req.GuildID)
	if err != nil {
		return clip.Outcome{}, err
	}
	return s.assembler.Assemble(ctx, req, gs.Registry(), s.deliverers.For(req))
}

// StartRecording records the guild's audio until StopRecording.
func (s *Service) StartRecording(req clip.Request) error {
	gs, err := s.session(req.GuildID)
	if err != nil {
		return err
	}
	_, err = s.recorder.Start(req.GuildID, req.RequesterID, gs.Ingestor())
	return err
}

// StopRecording ends the guild's recording and delivers it.
func (s *Service) StopRecording(ctx context.Context, req clip.Request) (clip.Outcome, error) {
	rec, err := s.recorder.Stop(req.GuildID)
	if err != nil {
		return clip.Outcome{}, err
	}
	defer rec.Registry().Reset()

	req.Kind = clip.KindStopRecording
	req.Duration = s.recorder.Limit()
	return s.assembler.Assemble(ctx, req, rec.Registry(), s.deliverers.For(req))
}

// Replay starts playing userID's last clip into the guild's voice channel
// and returns its length. Playback continues in the background.
func (s *Service) Replay(guildID, userID string) (time.Duration, error) {
	last, ok := s.lastClips.Get(userID)
	if !ok {
		return 0, ErrNoClip
	}
	gs, err := s.session(guildID)
	if err != nil {
		return 0, err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := gs.play(s.ctx, s.player, last); err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("Replay failed",
				zap.String("guild_id", guildID),
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}()
	return last.Duration(), nil
}

// HandlePhrase clips the speaker's guild in the background. Voice matches go
// to the configured trigger channel, or to the speaker's DMs without one.
func (s *Service) HandlePhrase(m clip.PhraseMatch) {
	if s.ctx.Err() != nil {
		return
	}
	if m.Origin == clip.OriginVoice && m.ChannelID == "" && s.voiceChannel.IsValid() {
		m.ChannelID = s.voiceChannel.String()
	}
	req := m.Request(s.assembler.Settings().DefaultDuration)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(s.ctx, phraseClipTimeout)
		defer cancel()

		out, err := s.Clip(ctx, req)
		switch {
		case err != nil:
			s.logger.Warn("Phrase clip failed",
				zap.String("guild_id", req.GuildID),
				zap.String("origin", string(req.Origin)),
				zap.Error(err))
			s.notify(req, UserMessage(err))
		case out.Empty:
			s.notify(req, out.Message)
		}
	}()
}

// notify posts text into the request's channel, if it has one.
func (s *Service) notify(req clip.Request, text string) {
	if req.ChannelID == "" || text == "" {
		return
	}
	id, err := discord.ParseSnowflake(req.ChannelID)
	if err != nil {
		return
	}
	if _, err := s.messenger.SendMessageComplex(discord.ChannelID(id), api.SendMessageData{Content: text}); err != nil {
		s.logger.Warn("Failed to send notice", zap.String("channel_id", req.ChannelID), zap.Error(err))
	}
}

// sessionClosed drops the guild's recording. Its tap belonged to the closed
// session's ingestor.
func (s *Service) sessionClosed(guildID discord.GuildID) {
	id := guildID.String()
	if !s.recorder.Active(id) {
		return
	}
	s.recorder.Discard(id)
	s.logger.Warn("Recording discarded, voice session closed", zap.String("guild_id", id))
}

func (s *Service) session(guildID string) (*GuildSession, error) {
	id, err := discord.ParseSnowflake(guildID)
	if err != nil {
		return nil, ErrNotConnected
	}
	gs, ok := s.manager.Get(discord.GuildID(id))
	if !ok {
		return nil, ErrNotConnected
	}
	return gs, nil
}

// Shutdown cancels background clips and replays and waits for them.
func (s *Service) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
