package clip

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Raikerian/go-discord-clipper/internal/capture"
)

// Tapper is the part of capture.Ingestor a recording needs.
type Tapper interface {
	AddTap(t capture.Tap) (remove func())
}

// Recording is an explicit start/stop capture of a guild's audio. It keeps at
// most the recorder's limit, trailing.
type Recording struct {
	GuildID   string
	StartedBy string
	StartedAt time.Time

	registry *capture.SessionRegistry
	detach   func()
}

// Registry holds the recorded audio.
func (r *Recording) Registry() *capture.SessionRegistry { return r.registry }

// Recorder tracks at most one Recording per guild.
type Recorder struct {
	logger *zap.Logger
	limit  time.Duration

	mu     sync.Mutex
	active map[string]*Recording
}

// NewRecorder creates a Recorder whose recordings keep up to limit of audio.
func NewRecorder(logger *zap.Logger, limit time.Duration) *Recorder {
	return &Recorder{
		logger: logger,
		limit:  limit,
		active: make(map[string]*Recording),
	}
}

// Limit is the longest audio a recording keeps.
func (r *Recorder) Limit() time.Duration { return r.limit }

// Start begins recording every chunk src decodes for guildID.
func (r *Recorder) Start(guildID, userID string, src Tapper) (*Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[guildID]; ok {
		return nil, ErrRecordingActive
	}

	rec := &Recording{
		GuildID:   guildID,
		StartedBy: userID,
		StartedAt: time.Now(),
		registry:  capture.NewSessionRegistry(r.limit, nil),
	}
	rec.detach = src.AddTap(func(id capture.SourceID, c capture.Chunk) {
		rec.registry.Append(id, c)
	})
	r.active[guildID] = rec

	r.logger.Info("Recording started",
		zap.String("guild_id", guildID),
		zap.String("user_id", userID),
	)
	return rec, nil
}

// Stop detaches guildID's recording and returns it for assembly.
func (r *Recorder) Stop(guildID string) (*Recording, error) {
	r.mu.Lock()
	rec, ok := r.active[guildID]
	delete(r.active, guildID)
	r.mu.Unlock()

	if !ok {
		return nil, ErrNoRecording
	}
	rec.detach()

	r.logger.Info("Recording stopped",
		zap.String("guild_id", guildID),
		zap.Duration("elapsed", time.Since(rec.StartedAt)),
	)
	return rec, nil
}

// Discard drops guildID's recording without producing a clip.
func (r *Recorder) Discard(guildID string) {
	rec, err := r.Stop(guildID)
	if err != nil {
		return
	}
	rec.registry.Reset()
}

// Active reports whether guildID is recording.
func (r *Recorder) Active(guildID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.active[guildID]
	return ok
}
