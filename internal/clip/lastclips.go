package clip

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Raikerian/go-discord-clipper/pkg/audio"
)

// LastClip is the most recent successful clip of one user, kept for replay.
type LastClip struct {
	PCM       []byte
	Format    audio.Format
	CreatedAt time.Time
}

// Duration is the playback length of the clip.
func (c LastClip) Duration() time.Duration {
	return c.Format.Duration(len(c.PCM))
}

// LastClips is a bounded per-user cache of LastClip. It is safe for
// concurrent use.
type LastClips struct {
	cache *lru.Cache[string, LastClip]
}

// NewLastClips creates a cache holding at most size users.
func NewLastClips(size int) (*LastClips, error) {
	cache, err := lru.New[string, LastClip](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create last clip cache: %w", err)
	}
	return &LastClips{cache: cache}, nil
}

// Put stores c as userID's last clip.
func (l *LastClips) Put(userID string, c LastClip) {
	l.cache.Add(userID, c)
}

// Get returns userID's last clip.
func (l *LastClips) Get(userID string) (LastClip, bool) {
	return l.cache.Get(userID)
}

// Len returns the number of users with a stored clip.
func (l *LastClips) Len() int {
	return l.cache.Len()
}
